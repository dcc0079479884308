package engine

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "centsible/internal/errors"
	"centsible/internal/logger"
	"centsible/internal/models"
)

// ActivateNow makes the given budget the active one, superseding any current
// active budget, and ensures a period containing now exists for it. Flag
// flips and the period insert are one transaction. Pre-existing orphan
// expenses inside the new period's range are attached right away.
func (e *Engine) ActivateNow(budgetID string, now time.Time) (*models.BudgetPeriod, error) {
	loc, err := e.location()
	if err != nil {
		return nil, err
	}

	var created *models.BudgetPeriod
	err = e.db.Transaction(func(tx *gorm.DB) error {
		var budget models.Budget
		if err := tx.Where("id = ?", budgetID).First(&budget).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrBudgetNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Model(&models.Budget{}).
			Where("is_active = ? AND id <> ?", true, budget.ID).
			Update("is_active", false).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Model(&models.Budget{}).Where("id = ?", budget.ID).
			Updates(map[string]interface{}{"is_active": true, "is_upcoming": false}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		// Reuse a period already covering now rather than inserting a twin.
		var existing []models.BudgetPeriod
		if err := tx.Where("budget_id = ?", budget.ID).Find(&existing).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for i := range existing {
			if ContainsDate(existing[i].StartDate, existing[i].EndDate, now, loc) {
				created = &existing[i]
				return nil
			}
		}

		candidate, err := e.successorCandidate(tx, &budget, now, loc)
		if err != nil {
			return err
		}
		if err := e.insertPeriod(tx, &candidate, loc); err != nil {
			return err
		}
		created = &candidate
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("budget activated", "budget_id", budgetID, "period_id", created.ID)

	if _, err := e.AttachOrphans(now); err != nil {
		// Activation already committed; orphans are retried next tick.
		logger.Get().Warnw("orphan attachment after activation failed", "error", err)
	}
	return created, nil
}

// ScheduleUpcoming queues the given budget to take over when the active
// budget's current period completes. Any previously queued budget loses its
// upcoming flag.
func (e *Engine) ScheduleUpcoming(budgetID string) error {
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var budget models.Budget
		if err := tx.Where("id = ?", budgetID).First(&budget).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrBudgetNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Model(&models.Budget{}).
			Where("is_upcoming = ? AND id <> ?", true, budget.ID).
			Update("is_upcoming", false).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Model(&models.Budget{}).Where("id = ?", budget.ID).
			Update("is_upcoming", true).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Get().Infow("budget scheduled as upcoming", "budget_id", budgetID)
	return nil
}

// SetVacationMode flips a budget's vacation flag. While on, the budget's
// completed periods get no successor; clearing it lets the next pass resume,
// anchored at that moment rather than backfilling the pause.
func (e *Engine) SetVacationMode(budgetID string, on bool) error {
	res := e.db.Model(&models.Budget{}).Where("id = ?", budgetID).
		Update("vacation_mode", on)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrBudgetNotFound
	}

	logger.Get().Infow("vacation mode set", "budget_id", budgetID, "on", on)
	return nil
}
