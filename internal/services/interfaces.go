package services

import (
	"time"

	"github.com/shopspring/decimal"

	"centsible/internal/engine"
	"centsible/internal/models"
	"centsible/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, displayName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// SettingsServicer defines the contract for runtime settings. It implements
// engine.TimezoneSource: the timezone is read from the store on every call so
// user edits apply to all subsequent period math.
type SettingsServicer interface {
	CurrentLocation() (*time.Location, error)
	GetTimezone() (string, error)
	SetTimezone(name string) error
}

// PeriodProgress contains spending vs target data for one budget period.
// Spent is derived by summing attached expenses at read time; it is never
// stored, so it cannot drift.
type PeriodProgress struct {
	Period     *models.BudgetPeriod `json:"period"`
	Spent      decimal.Decimal      `json:"spent"`
	Remaining  decimal.Decimal      `json:"remaining"`
	Percentage float64              `json:"percentage"`
}

// BudgetServicer defines the contract for budget-related business logic.
// Activation, scheduling, and vacation toggles delegate to the period engine
// so every multi-step mutation stays transactional.
type BudgetServicer interface {
	CreateBudget(name string, targetAmount decimal.Decimal, startWeekday, durationDays int) (*models.Budget, error)
	GetBudgets(page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(budgetID string) (*models.Budget, error)
	UpdateBudget(budgetID string, name string, targetAmount *decimal.Decimal, startWeekday, durationDays *int) (*models.Budget, error)
	DeleteBudget(budgetID string) error

	ActivateNow(budgetID string) (*models.BudgetPeriod, error)
	ScheduleUpcoming(budgetID string) error
	SetVacationMode(budgetID string, on bool) error

	GetPeriods(budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetPeriod], error)
	GetCurrentPeriod() (*PeriodProgress, error)
	GetHistory(budgetID string) ([]PeriodProgress, error)
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	Category  *string
	PlaceID   *string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	Orphaned  *bool
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(amount decimal.Decimal, description, category string, occurredAt time.Time, placeID *string) (*models.Expense, error)
	GetExpenses(page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(expenseID string) (*models.Expense, error)
	UpdateExpense(expenseID string, amount *decimal.Decimal, description, category *string, occurredAt *time.Time, placeID *string) (*models.Expense, error)
	DeleteExpense(expenseID string) error
	ExportCSV(filter ExpenseFilter) ([]byte, error)
}

// PlaceServicer defines the contract for saved-place lookup.
type PlaceServicer interface {
	CreatePlace(name string, latitude, longitude float64, address string) (*models.Place, error)
	GetPlaces(page pagination.PageRequest) (*pagination.PageResponse[models.Place], error)
	GetPlaceByID(placeID string) (*models.Place, error)
	UpdatePlace(placeID string, name, address *string) (*models.Place, error)
	DeletePlace(placeID string) error
	Nearby(latitude, longitude, radiusMeters float64) ([]models.Place, error)
}

// ReceiptServicer stores and serves receipt images for expenses.
type ReceiptServicer interface {
	Store(expenseID, filename string, data []byte) (string, error)
	Open(expenseID string) (path string, err error)
	Delete(expenseID string) error
}

// AuditServicer records sensitive operations. Implementations must never
// propagate errors to the caller.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}

// Reconciler is the subset of the engine the HTTP layer may trigger directly.
type Reconciler interface {
	RunOnce(now time.Time) (bool, error)
}

var _ Reconciler = (*engine.Engine)(nil)
