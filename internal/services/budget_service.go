package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"centsible/internal/engine"
	apperrors "centsible/internal/errors"
	"centsible/internal/models"
	"centsible/internal/pagination"
)

// budgetService handles budget-related business logic. Activation,
// scheduling, and vacation toggles go through the period engine so the
// single-active invariant is enforced in one place.
type budgetService struct {
	db     *gorm.DB
	engine *engine.Engine
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, eng *engine.Engine) BudgetServicer {
	return &budgetService{db: db, engine: eng}
}

// CreateBudget creates a new budget. New budgets start inactive; the caller
// activates or schedules them separately.
func (s *budgetService) CreateBudget(name string, targetAmount decimal.Decimal, startWeekday, durationDays int) (*models.Budget, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	budget := &models.Budget{
		Name:         name,
		TargetAmount: targetAmount,
		StartWeekday: startWeekday,
		DurationDays: durationDays,
	}

	if violations := engine.ValidateBudget(budget); len(violations) > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrBudgetInvalid, engine.ViolationSummary(violations))
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetBudgets returns a paginated list of budgets, active first.
func (s *budgetService) GetBudgets(page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Budget{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := s.db.Order("is_active DESC, created_at DESC").Scopes(pagination.Paginate(page)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID.
func (s *budgetService) GetBudgetByID(budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ?", budgetID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates a budget's recurrence fields. Changes only affect
// periods generated after the update; existing periods keep their frozen
// dates and target.
func (s *budgetService) UpdateBudget(budgetID string, name string, targetAmount *decimal.Decimal, startWeekday, durationDays *int) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		budget.Name = name
	}
	if targetAmount != nil {
		budget.TargetAmount = *targetAmount
	}
	if startWeekday != nil {
		budget.StartWeekday = *startWeekday
	}
	if durationDays != nil {
		budget.DurationDays = *durationDays
	}

	if violations := engine.ValidateBudget(budget); len(violations) > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrBudgetInvalid, engine.ViolationSummary(violations))
	}

	if err := s.db.Save(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// DeleteBudget soft-deletes a budget together with its periods. Expenses
// attached to those periods are detached, not deleted, and may be picked up
// later as orphans if another budget covers their dates.
func (s *budgetService) DeleteBudget(budgetID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", budgetID).Delete(&models.Budget{})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrBudgetNotFound
		}

		if err := tx.Model(&models.Expense{}).
			Where("budget_period_id IN (?)", tx.Model(&models.BudgetPeriod{}).
				Select("id").Where("budget_id = ?", budgetID)).
			Update("budget_period_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Where("budget_id = ?", budgetID).
			Delete(&models.BudgetPeriod{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return nil
	})
}

// ActivateNow makes the budget active immediately, creating or reusing a
// period that covers the current instant.
func (s *budgetService) ActivateNow(budgetID string) (*models.BudgetPeriod, error) {
	return s.engine.ActivateNow(budgetID, time.Now())
}

// ScheduleUpcoming marks the budget to take over when the active one completes.
func (s *budgetService) ScheduleUpcoming(budgetID string) error {
	return s.engine.ScheduleUpcoming(budgetID)
}

// SetVacationMode toggles vacation mode on the budget.
func (s *budgetService) SetVacationMode(budgetID string, on bool) error {
	return s.engine.SetVacationMode(budgetID, on)
}

// GetPeriods returns a paginated list of periods for the budget, newest first.
func (s *budgetService) GetPeriods(budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetPeriod], error) {
	if _, err := s.GetBudgetByID(budgetID); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.BudgetPeriod{}).Where("budget_id = ?", budgetID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var periods []models.BudgetPeriod
	if err := base.Order("start_date DESC").Scopes(pagination.Paginate(page)).Find(&periods).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(periods, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCurrentPeriod returns the active period with derived spending progress.
func (s *budgetService) GetCurrentPeriod() (*PeriodProgress, error) {
	var period models.BudgetPeriod
	if err := s.db.Where("status = ?", models.PeriodStatusActive).First(&period).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoActivePeriod
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.progressFor(&period)
}

// GetHistory returns completed periods for the budget with derived spending,
// newest first.
func (s *budgetService) GetHistory(budgetID string) ([]PeriodProgress, error) {
	if _, err := s.GetBudgetByID(budgetID); err != nil {
		return nil, err
	}

	var periods []models.BudgetPeriod
	err := s.db.Where("budget_id = ? AND status = ?", budgetID, models.PeriodStatusCompleted).
		Order("start_date DESC").Find(&periods).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	history := make([]PeriodProgress, 0, len(periods))
	for i := range periods {
		progress, err := s.progressFor(&periods[i])
		if err != nil {
			return nil, err
		}
		history = append(history, *progress)
	}
	return history, nil
}

// progressFor sums the period's attached expenses. Amounts are summed as
// decimals in Go rather than in SQL so sqlite and postgres agree exactly.
func (s *budgetService) progressFor(period *models.BudgetPeriod) (*PeriodProgress, error) {
	var expenses []models.Expense
	if err := s.db.Where("budget_period_id = ?", period.ID).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	spent := decimal.Zero
	for i := range expenses {
		spent = spent.Add(expenses[i].Amount)
	}

	remaining := period.TargetAmount.Sub(spent)
	percentage := 0.0
	if period.TargetAmount.IsPositive() {
		percentage, _ = spent.Div(period.TargetAmount).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	}

	return &PeriodProgress{
		Period:     period,
		Spent:      spent,
		Remaining:  remaining,
		Percentage: percentage,
	}, nil
}
