package engine

import (
	"testing"
	"time"

	"centsible/internal/models"

	"github.com/shopspring/decimal"
)

func TestValidateBudget(t *testing.T) {
	t.Run("valid_budget_has_no_violations", func(t *testing.T) {
		b := testBudget(1, 7)
		if v := ValidateBudget(b); v != nil {
			t.Errorf("expected no violations, got %v", v)
		}
	})

	t.Run("boundary_values_are_accepted", func(t *testing.T) {
		for _, b := range []*models.Budget{testBudget(0, 7), testBudget(6, 28)} {
			if v := ValidateBudget(b); v != nil {
				t.Errorf("weekday %d duration %d: unexpected violations %v", b.StartWeekday, b.DurationDays, v)
			}
		}
	})

	t.Run("all_violations_reported_together", func(t *testing.T) {
		b := &models.Budget{
			Name:         "   ",
			TargetAmount: decimal.NewFromInt(-5),
			StartWeekday: 7,
			DurationDays: 5,
		}
		violations := ValidateBudget(b)
		if len(violations) != 4 {
			t.Fatalf("expected 4 violations, got %d: %v", len(violations), violations)
		}
		fields := map[string]bool{}
		for _, v := range violations {
			fields[v.Field] = true
		}
		for _, f := range []string{"name", "target_amount", "start_weekday", "duration_days"} {
			if !fields[f] {
				t.Errorf("expected violation for field %s", f)
			}
		}
	})

	t.Run("zero_amount_rejected", func(t *testing.T) {
		b := testBudget(1, 7)
		b.TargetAmount = decimal.Zero
		violations := ValidateBudget(b)
		if len(violations) != 1 || violations[0].Field != "target_amount" {
			t.Errorf("expected single target_amount violation, got %v", violations)
		}
	})

	t.Run("duration_bounds", func(t *testing.T) {
		for _, d := range []int{6, 29} {
			b := testBudget(1, d)
			violations := ValidateBudget(b)
			if len(violations) != 1 || violations[0].Field != "duration_days" {
				t.Errorf("duration %d: expected duration_days violation, got %v", d, violations)
			}
		}
	})
}

func TestWouldOverlap(t *testing.T) {
	utc := time.UTC
	budget := testBudget(1, 7)

	existing := GenerateForward(budget, time.Date(2025, time.July, 22, 0, 0, 0, 0, utc), 3, utc)

	t.Run("detects_collision_with_existing_period", func(t *testing.T) {
		candidate := GenerateRetroactive(budget, time.Date(2025, time.July, 24, 0, 0, 0, 0, utc), utc)
		if !WouldOverlap(&candidate, existing, utc) {
			t.Error("expected overlap with existing period")
		}
	})

	t.Run("adjacent_period_does_not_overlap", func(t *testing.T) {
		candidate := models.BudgetPeriod{
			BudgetID:  budget.ID,
			StartDate: NextPeriodStart(existing[len(existing)-1].EndDate, utc),
		}
		candidate.EndDate = PeriodEnd(candidate.StartDate, 7, utc)
		if WouldOverlap(&candidate, existing, utc) {
			t.Error("adjacent period must not count as overlapping")
		}
	})

	t.Run("other_budgets_are_ignored", func(t *testing.T) {
		candidate := GenerateRetroactive(budget, time.Date(2025, time.July, 24, 0, 0, 0, 0, utc), utc)
		candidate.BudgetID = "budget-other"
		if WouldOverlap(&candidate, existing, utc) {
			t.Error("periods of a different budget must be ignored")
		}
	})
}
