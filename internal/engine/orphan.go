package engine

import (
	"time"

	apperrors "centsible/internal/errors"
	"centsible/internal/logger"
	"centsible/internal/models"
)

// MatchPeriod returns the period whose inclusive date range contains the date
// component of ts, searching across all budgets. When ranges from different
// budgets both contain the date (possible around a mid-period budget switch),
// the period with the latest start date wins, since that is the one created
// by the switch. Returns nil when nothing matches.
func MatchPeriod(ts time.Time, periods []models.BudgetPeriod, loc *time.Location) *models.BudgetPeriod {
	var best *models.BudgetPeriod
	for i := range periods {
		p := &periods[i]
		if !ContainsDate(p.StartDate, p.EndDate, ts, loc) {
			continue
		}
		if best == nil || p.StartDate.After(best.StartDate) {
			best = p
		}
	}
	return best
}

// AttachOrphans finds expenses with no budget period and attaches each to the
// period containing its timestamp, if one exists. Expenses outside every
// period stay orphaned without error. Re-running is safe: attached expenses
// no longer match the orphan query, so double attachment is impossible.
//
// This is the only mutation the engine ever performs on expenses.
func (e *Engine) AttachOrphans(now time.Time) (int, error) {
	loc, err := e.location()
	if err != nil {
		return 0, err
	}

	var orphans []models.Expense
	if err := e.db.Where("budget_period_id IS NULL").Find(&orphans).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(orphans) == 0 {
		return 0, nil
	}

	var periods []models.BudgetPeriod
	if err := e.db.Find(&periods).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	attached := 0
	for i := range orphans {
		exp := &orphans[i]
		period := MatchPeriod(exp.OccurredAt, periods, loc)
		if period == nil {
			continue
		}
		if err := e.db.Model(&models.Expense{}).
			Where("id = ?", exp.ID).
			Update("budget_period_id", period.ID).Error; err != nil {
			return attached, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		attached++
	}

	if attached > 0 {
		logger.Get().Infow("orphan expenses attached", "count", attached)
	}
	return attached, nil
}
