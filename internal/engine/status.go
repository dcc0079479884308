package engine

import (
	"time"

	"gorm.io/gorm"

	apperrors "centsible/internal/errors"
	"centsible/internal/logger"
	"centsible/internal/models"
)

// StatusChange records one period whose persisted status diverged from the
// pure status function at a given instant.
type StatusChange struct {
	PeriodID string
	From     models.PeriodStatus
	To       models.PeriodStatus
}

// DiffStatuses recomputes every period's status against now and returns the
// set that changed. The input is not mutated; the caller persists the diff.
// Running it twice with the same now yields nothing the second time once the
// first diff has been applied.
func DiffStatuses(periods []models.BudgetPeriod, now time.Time) []StatusChange {
	var changes []StatusChange
	for i := range periods {
		p := &periods[i]
		want := StatusFor(p.StartDate, p.EndDate, now)
		if want != p.Status {
			changes = append(changes, StatusChange{PeriodID: p.ID, From: p.Status, To: want})
		}
	}
	return changes
}

// ReconcileStatuses aligns every persisted period status with the pure status
// function and reports what changed. Safe to call any number of times.
func (e *Engine) ReconcileStatuses(now time.Time) ([]StatusChange, error) {
	var periods []models.BudgetPeriod
	if err := e.db.Find(&periods).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	changes := DiffStatuses(periods, now)
	if len(changes) == 0 {
		return nil, nil
	}

	err := e.db.Transaction(func(tx *gorm.DB) error {
		for _, ch := range changes {
			if err := tx.Model(&models.BudgetPeriod{}).
				Where("id = ?", ch.PeriodID).
				Update("status", ch.To).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, ch := range changes {
		logger.Get().Infow("period status changed",
			"period_id", ch.PeriodID,
			"from", ch.From,
			"to", ch.To,
		)
	}
	return changes, nil
}
