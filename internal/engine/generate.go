package engine

import (
	"time"

	"centsible/internal/models"
)

// GenerateForward builds count sequential candidate periods for budget. The
// first is anchored at PeriodStart(budget.StartWeekday, from); each later one
// starts the day after its predecessor ends. The first period's status is set
// as if reconciled against from; the rest start as upcoming.
//
// The results are candidates only: they carry no IDs and must pass the
// overlap check before being persisted.
func GenerateForward(budget *models.Budget, from time.Time, count int, loc *time.Location) []models.BudgetPeriod {
	periods := make([]models.BudgetPeriod, 0, count)
	start := PeriodStart(time.Weekday(budget.StartWeekday), from, loc)
	for i := 0; i < count; i++ {
		end := PeriodEnd(start, budget.DurationDays, loc)
		status := models.PeriodStatusUpcoming
		if i == 0 {
			status = StatusFor(start, end, from)
		}
		periods = append(periods, models.BudgetPeriod{
			BudgetID:     budget.ID,
			StartDate:    start,
			EndDate:      end,
			TargetAmount: budget.TargetAmount,
			Status:       status,
		})
		start = NextPeriodStart(end, loc)
	}
	return periods
}

// GenerateRetroactive builds a single candidate period guaranteed to contain
// target within its date range. Used when a budget must immediately account
// for an instant that already passed, such as activation after expenses
// exist, or a handoff that fires slightly after the boundary.
func GenerateRetroactive(budget *models.Budget, target time.Time, loc *time.Location) models.BudgetPeriod {
	return GenerateForward(budget, target, 1, loc)[0]
}

// continuationCandidate builds the next period for a budget whose latest
// period ended at lastEnd. The start is normally the weekday-anchored date
// containing now, clamped forward to the day after lastEnd so the candidate
// can never reach back into an existing period. After a long pause (vacation
// resume, scheduler outage) the anchor wins and the intervening gap stays a
// gap.
func continuationCandidate(budget *models.Budget, lastEnd time.Time, now time.Time, loc *time.Location) models.BudgetPeriod {
	start := PeriodStart(time.Weekday(budget.StartWeekday), now, loc)
	if next := NextPeriodStart(lastEnd, loc); start.Before(next) {
		start = next
	}
	end := PeriodEnd(start, budget.DurationDays, loc)
	return models.BudgetPeriod{
		BudgetID:     budget.ID,
		StartDate:    start,
		EndDate:      end,
		TargetAmount: budget.TargetAmount,
		Status:       StatusFor(start, end, now),
	}
}
