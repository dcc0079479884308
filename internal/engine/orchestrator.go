package engine

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "centsible/internal/errors"
	"centsible/internal/logger"
	"centsible/internal/models"
)

// RunTransitions evaluates the budget state machine for the current pass.
//
// The trigger is the gap condition: the active budget has no period with
// status active or upcoming. That covers both "a period just completed" and
// self-healing after missed cycles, and persists until resolved, so a failed
// pass is simply retried on the next tick.
//
// Rules, in order, for the active budget:
//  1. vacation mode on: do nothing until the user clears it
//  2. a different budget is marked upcoming: hand off (flag flips plus one
//     retroactive period for the successor, in one transaction)
//  3. otherwise: auto-continue with the next sequential period, or restart
//     anchored at now after a long pause
func (e *Engine) RunTransitions(now time.Time) error {
	loc, err := e.location()
	if err != nil {
		return err
	}

	var budgets []models.Budget
	if err := e.db.Find(&budgets).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var active, upcoming *models.Budget
	activeCount, upcomingCount := 0, 0
	for i := range budgets {
		if budgets[i].IsActive {
			active = &budgets[i]
			activeCount++
		}
		if budgets[i].IsUpcoming {
			upcoming = &budgets[i]
			upcomingCount++
		}
	}

	// Never auto-fix a broken invariant: it means something wrote flags
	// outside a transaction, and papering over it would hide the bug.
	if activeCount > 1 || upcomingCount > 1 {
		logger.Get().Errorw("budget state invariant violated",
			"active_count", activeCount,
			"upcoming_count", upcomingCount,
		)
		return apperrors.ErrStateInvariant
	}

	if active == nil {
		return nil
	}

	var current int64
	err = e.db.Model(&models.BudgetPeriod{}).
		Where("budget_id = ? AND status IN ?", active.ID,
			[]models.PeriodStatus{models.PeriodStatusActive, models.PeriodStatusUpcoming}).
		Count(&current).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if current > 0 {
		return nil
	}

	// Rule 1: vacation suppresses continuation entirely.
	if active.VacationMode {
		logger.Get().Debugw("budget on vacation, no period created", "budget_id", active.ID)
		return nil
	}

	// Rule 2: hand off to the waiting budget.
	if upcoming != nil && upcoming.ID != active.ID {
		return e.handOff(active, upcoming, now, loc)
	}

	// Rule 3: auto-continue the same budget.
	return e.autoContinue(active, upcoming != nil, now, loc)
}

// handOff atomically deactivates the predecessor, promotes the successor, and
// creates the successor's first period anchored at now. The handoff may fire
// slightly after the precise boundary, hence the retroactive anchor. On any
// failure the whole transaction rolls back, so a crash can never leave two
// active budgets or a promotion with no period.
func (e *Engine) handOff(from, to *models.Budget, now time.Time, loc *time.Location) error {
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Budget{}).Where("id = ?", from.ID).
			Update("is_active", false).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Model(&models.Budget{}).Where("id = ?", to.ID).
			Updates(map[string]interface{}{"is_active": true, "is_upcoming": false}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		candidate, err := e.successorCandidate(tx, to, now, loc)
		if err != nil {
			return err
		}
		return e.insertPeriod(tx, &candidate, loc)
	})
	if err != nil {
		return err
	}

	logger.Get().Infow("budget handoff",
		"from_budget_id", from.ID,
		"to_budget_id", to.ID,
	)
	return nil
}

// autoContinue creates the next period for the active budget. sameUpcoming is
// true when the active budget is also flagged upcoming; continuing consumes
// that flag.
func (e *Engine) autoContinue(budget *models.Budget, sameUpcoming bool, now time.Time, loc *time.Location) error {
	err := e.db.Transaction(func(tx *gorm.DB) error {
		candidate, err := e.successorCandidate(tx, budget, now, loc)
		if err != nil {
			return err
		}
		if err := e.insertPeriod(tx, &candidate, loc); err != nil {
			return err
		}
		if sameUpcoming {
			if err := tx.Model(&models.Budget{}).Where("id = ?", budget.ID).
				Update("is_upcoming", false).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Get().Infow("budget period continued", "budget_id", budget.ID)
	return nil
}

// successorCandidate picks the next period for budget given its history: a
// fresh budget gets a retroactive period containing now; one with history
// continues the day after its latest period, anchored forward at now after a
// long pause.
func (e *Engine) successorCandidate(tx *gorm.DB, budget *models.Budget, now time.Time, loc *time.Location) (models.BudgetPeriod, error) {
	var last models.BudgetPeriod
	err := tx.Where("budget_id = ?", budget.ID).Order("end_date DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return GenerateRetroactive(budget, now, loc), nil
	}
	if err != nil {
		return models.BudgetPeriod{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return continuationCandidate(budget, last.EndDate, now, loc), nil
}
