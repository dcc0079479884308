package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"centsible/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBudget creates an inactive weekly budget starting on Monday with
// a 500.00 target.
func CreateTestBudget(t *testing.T, db *gorm.DB) *models.Budget {
	t.Helper()
	return CreateTestBudgetWith(t, db, 1, 7)
}

// CreateTestBudgetWith creates an inactive budget with the given recurrence.
func CreateTestBudgetWith(t *testing.T, db *gorm.DB, startWeekday, durationDays int) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		Name:         fmt.Sprintf("Test Budget %d", nextID()),
		TargetAmount: decimal.NewFromInt(500),
		StartWeekday: startWeekday,
		DurationDays: durationDays,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestPeriod creates a period for the budget spanning the given dates,
// with its status reconciled against now.
func CreateTestPeriod(t *testing.T, db *gorm.DB, budget *models.Budget, start, end, now time.Time) *models.BudgetPeriod {
	t.Helper()

	status := models.PeriodStatusActive
	switch {
	case now.Before(start):
		status = models.PeriodStatusUpcoming
	case now.After(end):
		status = models.PeriodStatusCompleted
	}

	period := &models.BudgetPeriod{
		BudgetID:     budget.ID,
		StartDate:    start,
		EndDate:      end,
		TargetAmount: budget.TargetAmount,
		Status:       status,
	}
	if err := db.Create(period).Error; err != nil {
		t.Fatalf("failed to create test period: %v", err)
	}
	return period
}

// CreateTestExpense creates an expense at the given time. periodID may be nil
// to create an orphan.
func CreateTestExpense(t *testing.T, db *gorm.DB, amount string, occurredAt time.Time, periodID *string) *models.Expense {
	t.Helper()

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("invalid test expense amount %q: %v", amount, err)
	}

	expense := &models.Expense{
		Amount:         amt,
		Description:    fmt.Sprintf("Test Expense %d", nextID()),
		Category:       "groceries",
		OccurredAt:     occurredAt,
		BudgetPeriodID: periodID,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestPlace creates a place at the given coordinates.
func CreateTestPlace(t *testing.T, db *gorm.DB, lat, lon float64) *models.Place {
	t.Helper()

	place := &models.Place{
		Name:      fmt.Sprintf("Test Place %d", nextID()),
		Latitude:  lat,
		Longitude: lon,
	}
	if err := db.Create(place).Error; err != nil {
		t.Fatalf("failed to create test place: %v", err)
	}
	return place
}

// SetTestTimezone stores the timezone setting row.
func SetTestTimezone(t *testing.T, db *gorm.DB, name string) {
	t.Helper()

	setting := &models.Setting{Key: models.SettingTimezone, Value: name}
	if err := db.Create(setting).Error; err != nil {
		t.Fatalf("failed to set test timezone: %v", err)
	}
}
