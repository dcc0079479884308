package engine

import (
	"fmt"
	"strings"
	"time"

	"centsible/internal/models"
)

// Recurrence bounds for budgets.
const (
	MinDurationDays = 7
	MaxDurationDays = 28
)

// Violation describes a single failed budget validation rule.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateBudget checks a budget's structural fields and returns every
// violated rule, not just the first, so callers can report them together.
// A nil result means the budget is valid.
func ValidateBudget(b *models.Budget) []Violation {
	var violations []Violation
	if strings.TrimSpace(b.Name) == "" {
		violations = append(violations, Violation{Field: "name", Message: "name must not be empty"})
	}
	if !b.TargetAmount.IsPositive() {
		violations = append(violations, Violation{Field: "target_amount", Message: "target amount must be greater than zero"})
	}
	if b.StartWeekday < 0 || b.StartWeekday > 6 {
		violations = append(violations, Violation{Field: "start_weekday", Message: "start weekday must be between 0 (Sunday) and 6 (Saturday)"})
	}
	if b.DurationDays < MinDurationDays || b.DurationDays > MaxDurationDays {
		violations = append(violations, Violation{
			Field:   "duration_days",
			Message: fmt.Sprintf("duration must be between %d and %d days", MinDurationDays, MaxDurationDays),
		})
	}
	return violations
}

// ViolationSummary joins violation messages into one human-readable string.
func ViolationSummary(violations []Violation) string {
	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.Message
	}
	return strings.Join(msgs, "; ")
}

// WouldOverlap reports whether candidate's date range intersects any existing
// period of the same budget. Periods belonging to other budgets are ignored.
func WouldOverlap(candidate *models.BudgetPeriod, existing []models.BudgetPeriod, loc *time.Location) bool {
	for i := range existing {
		p := &existing[i]
		if p.BudgetID != candidate.BudgetID || p.ID == candidate.ID {
			continue
		}
		if DatesOverlap(candidate.StartDate, candidate.EndDate, p.StartDate, p.EndDate, loc) {
			return true
		}
	}
	return false
}
