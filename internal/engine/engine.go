package engine

import (
	"sync"
	"time"

	"gorm.io/gorm"

	apperrors "centsible/internal/errors"
	"centsible/internal/logger"
	"centsible/internal/models"
)

// TimezoneSource yields the current reporting timezone. Implementations read
// the persisted setting at call time, not at startup, so user edits apply to
// all subsequent period math immediately. Existing periods keep their stored
// dates; only future generation sees the new zone.
type TimezoneSource interface {
	CurrentLocation() (*time.Location, error)
}

// Engine drives the budget period lifecycle against the backing store. All
// multi-step mutations run inside a single gorm transaction; the unique index
// on (budget_id, start_date, end_date) is the last-resort guard when a user
// request races a scheduler tick.
type Engine struct {
	db *gorm.DB
	tz TimezoneSource

	// runMu makes reconciliation passes single-flight: a tick that fires
	// while the previous one still runs is skipped, and a manual trigger
	// can never interleave with a tick.
	runMu sync.Mutex
}

// New creates an Engine over the given database and timezone source.
func New(db *gorm.DB, tz TimezoneSource) *Engine {
	return &Engine{db: db, tz: tz}
}

func (e *Engine) location() (*time.Location, error) {
	loc, err := e.tz.CurrentLocation()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidTimezone, err)
	}
	return loc, nil
}

// RunOnce executes one full reconciliation pass: status reconciliation, then
// budget transitions (including the gap self-heal), then orphan attachment.
// It returns false without running if another pass is already in flight.
// A failing step aborts the pass; the next tick retries, which is safe
// because every step is idempotent.
func (e *Engine) RunOnce(now time.Time) (bool, error) {
	if !e.runMu.TryLock() {
		logger.Get().Debugw("reconciliation pass already running, skipping")
		return false, nil
	}
	defer e.runMu.Unlock()

	if _, err := e.ReconcileStatuses(now); err != nil {
		return true, err
	}
	if err := e.RunTransitions(now); err != nil {
		return true, err
	}
	if _, err := e.AttachOrphans(now); err != nil {
		return true, err
	}
	return true, nil
}

// insertPeriod persists a candidate period after checking it against the
// budget's existing periods. Runs inside the caller's transaction so a
// rejected insert rolls back any flag flips done alongside it.
func (e *Engine) insertPeriod(tx *gorm.DB, candidate *models.BudgetPeriod, loc *time.Location) error {
	var existing []models.BudgetPeriod
	if err := tx.Where("budget_id = ?", candidate.BudgetID).Find(&existing).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if WouldOverlap(candidate, existing, loc) {
		return apperrors.ErrPeriodOverlap
	}
	if err := tx.Create(candidate).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
