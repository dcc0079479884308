package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"centsible/internal/engine"
	apperrors "centsible/internal/errors"
	"centsible/internal/models"
	"centsible/internal/pagination"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db       *gorm.DB
	settings SettingsServicer
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, settings SettingsServicer) ExpenseServicer {
	return &expenseService{db: db, settings: settings}
}

// CreateExpense records an expense and attaches it to the period containing
// its date, if one exists. Expenses with no containing period are stored as
// orphans and picked up later by the engine's orphan reconciler.
func (s *expenseService) CreateExpense(amount decimal.Decimal, description, category string, occurredAt time.Time, placeID *string) (*models.Expense, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}

	if placeID != nil {
		var count int64
		if err := s.db.Model(&models.Place{}).Where("id = ?", *placeID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrPlaceNotFound
		}
	}

	expense := &models.Expense{
		Amount:      amount,
		Description: description,
		Category:    category,
		OccurredAt:  occurredAt,
		PlaceID:     placeID,
	}

	period, err := s.containingPeriod(occurredAt)
	if err != nil {
		return nil, err
	}
	if period != nil {
		expense.BudgetPeriodID = &period.ID
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// GetExpenses returns a paginated, filtered list of expenses, newest first.
func (s *expenseService) GetExpenses(page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.applyFilter(s.db.Model(&models.Expense{}), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Preload("Place").Order("occurred_at DESC").Scopes(pagination.Paginate(page)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID returns an expense by ID.
func (s *expenseService) GetExpenseByID(expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Preload("Place").Preload("BudgetPeriod").Where("id = ?", expenseID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense updates an expense. Changing the date re-resolves the period
// attachment, so moving an expense out of its period makes it an orphan again.
func (s *expenseService) UpdateExpense(expenseID string, amount *decimal.Decimal, description, category *string, occurredAt *time.Time, placeID *string) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(expenseID)
	if err != nil {
		return nil, err
	}

	if amount != nil {
		if !amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
		}
		expense.Amount = *amount
	}
	if description != nil {
		expense.Description = *description
	}
	if category != nil {
		expense.Category = *category
	}
	if placeID != nil {
		var count int64
		if err := s.db.Model(&models.Place{}).Where("id = ?", *placeID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrPlaceNotFound
		}
		expense.PlaceID = placeID
	}
	if occurredAt != nil {
		expense.OccurredAt = *occurredAt
		period, err := s.containingPeriod(*occurredAt)
		if err != nil {
			return nil, err
		}
		if period != nil {
			expense.BudgetPeriodID = &period.ID
		} else {
			expense.BudgetPeriodID = nil
		}
	}

	// Save with Select so a nil BudgetPeriodID is written, not skipped.
	if err := s.db.Model(expense).Select("amount", "description", "category", "occurred_at", "place_id", "budget_period_id").Updates(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// DeleteExpense soft-deletes an expense.
func (s *expenseService) DeleteExpense(expenseID string) error {
	result := s.db.Where("id = ?", expenseID).Delete(&models.Expense{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrExpenseNotFound
	}
	return nil
}

// ExportCSV renders the filtered expenses as a CSV document.
func (s *expenseService) ExportCSV(filter ExpenseFilter) ([]byte, error) {
	var expenses []models.Expense
	base := s.applyFilter(s.db.Model(&models.Expense{}), filter)
	if err := base.Preload("Place").Order("occurred_at ASC").Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"date", "amount", "category", "description", "place", "period_id"}); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range expenses {
		e := &expenses[i]
		place := ""
		if e.Place != nil {
			place = e.Place.Name
		}
		periodID := ""
		if e.BudgetPeriodID != nil {
			periodID = *e.BudgetPeriodID
		}
		record := []string{
			e.OccurredAt.Format(time.RFC3339),
			e.Amount.StringFixed(2),
			e.Category,
			e.Description,
			place,
			periodID,
		}
		if err := w.Write(record); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return buf.Bytes(), nil
}

// containingPeriod finds the period whose date range covers ts, resolving
// overlaps across budgets the same way the orphan reconciler does.
func (s *expenseService) containingPeriod(ts time.Time) (*models.BudgetPeriod, error) {
	loc, err := s.settings.CurrentLocation()
	if err != nil {
		return nil, err
	}

	var periods []models.BudgetPeriod
	if err := s.db.Find(&periods).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return engine.MatchPeriod(ts, periods, loc), nil
}

// applyFilter translates an ExpenseFilter into query conditions.
func (s *expenseService) applyFilter(base *gorm.DB, filter ExpenseFilter) *gorm.DB {
	if filter.FromDate != nil {
		base = base.Where("occurred_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("occurred_at <= ?", *filter.ToDate)
	}
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}
	if filter.PlaceID != nil {
		base = base.Where("place_id = ?", *filter.PlaceID)
	}
	if filter.MinAmount != nil {
		base = base.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		base = base.Where("amount <= ?", *filter.MaxAmount)
	}
	if filter.Orphaned != nil {
		if *filter.Orphaned {
			base = base.Where("budget_period_id IS NULL")
		} else {
			base = base.Where("budget_period_id IS NOT NULL")
		}
	}
	return base
}
