package handlers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "centsible/internal/errors"
	"centsible/internal/models"
	"centsible/internal/pagination"
	"centsible/internal/services"
	"centsible/internal/uuid"
)

// --- mock expense service ---

type mockExpenseService struct {
	createExpenseFn  func(amount decimal.Decimal, description, category string, occurredAt time.Time, placeID *string) (*models.Expense, error)
	getExpensesFn    func(page pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	getExpenseByIDFn func(expenseID string) (*models.Expense, error)
	updateExpenseFn  func(expenseID string, amount *decimal.Decimal, description, category *string, occurredAt *time.Time, placeID *string) (*models.Expense, error)
	deleteExpenseFn  func(expenseID string) error
	exportCSVFn      func(filter services.ExpenseFilter) ([]byte, error)
}

func (m *mockExpenseService) CreateExpense(amount decimal.Decimal, description, category string, occurredAt time.Time, placeID *string) (*models.Expense, error) {
	if m.createExpenseFn != nil {
		return m.createExpenseFn(amount, description, category, occurredAt, placeID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) GetExpenses(page pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	if m.getExpensesFn != nil {
		return m.getExpensesFn(page, filter)
	}
	resp := pagination.NewPageResponse([]models.Expense{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockExpenseService) GetExpenseByID(expenseID string) (*models.Expense, error) {
	if m.getExpenseByIDFn != nil {
		return m.getExpenseByIDFn(expenseID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) UpdateExpense(expenseID string, amount *decimal.Decimal, description, category *string, occurredAt *time.Time, placeID *string) (*models.Expense, error) {
	if m.updateExpenseFn != nil {
		return m.updateExpenseFn(expenseID, amount, description, category, occurredAt, placeID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) DeleteExpense(expenseID string) error {
	if m.deleteExpenseFn != nil {
		return m.deleteExpenseFn(expenseID)
	}
	return nil
}

func (m *mockExpenseService) ExportCSV(filter services.ExpenseFilter) ([]byte, error) {
	if m.exportCSVFn != nil {
		return m.exportCSVFn(filter)
	}
	return []byte("date,amount,category,description,place,period_id\n"), nil
}

var _ services.ExpenseServicer = (*mockExpenseService)(nil)

func setupExpenseRouter(handler *ExpenseHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID("user-1"))
	auth.POST("/expenses", handler.CreateExpense)
	auth.GET("/expenses", handler.GetExpenses)
	auth.GET("/expenses/export", handler.ExportExpenses)
	auth.GET("/expenses/:id", handler.GetExpense)
	auth.PATCH("/expenses/:id", handler.UpdateExpense)
	auth.DELETE("/expenses/:id", handler.DeleteExpense)
	return r
}

func TestExpenseHandler_CreateExpense(t *testing.T) {
	t.Run("returns 201 and defaults occurred_at to now", func(t *testing.T) {
		var gotOccurredAt time.Time
		svc := &mockExpenseService{
			createExpenseFn: func(amount decimal.Decimal, description, category string, occurredAt time.Time, _ *string) (*models.Expense, error) {
				gotOccurredAt = occurredAt
				return &models.Expense{
					Base:        models.Base{ID: uuid.New()},
					Amount:      amount,
					Description: description,
					Category:    category,
					OccurredAt:  occurredAt,
				}, nil
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses", `{"amount":"12.50","description":"coffee","category":"dining"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if time.Since(gotOccurredAt) > time.Minute {
			t.Errorf("expected occurred_at defaulted to now, got %s", gotOccurredAt)
		}
	})

	t.Run("returns 400 on missing amount", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses", `{"description":"coffee"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestExpenseHandler_GetExpenses(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		var gotFilter services.ExpenseFilter
		svc := &mockExpenseService{
			getExpensesFn: func(_ pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Expense{}, 1, 20, 0)
				return &resp, nil
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses?category=dining&orphaned=true&from=2025-07-01&min_amount=10", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.Category == nil || *gotFilter.Category != "dining" {
			t.Error("expected category filter dining")
		}
		if gotFilter.Orphaned == nil || !*gotFilter.Orphaned {
			t.Error("expected orphaned filter true")
		}
		if gotFilter.FromDate == nil || gotFilter.FromDate.Format("2006-01-02") != "2025-07-01" {
			t.Error("expected from date 2025-07-01")
		}
		if gotFilter.MinAmount == nil || !gotFilter.MinAmount.Equal(decimal.NewFromInt(10)) {
			t.Error("expected min amount 10")
		}
	})
}

func TestExpenseHandler_UpdateExpense(t *testing.T) {
	expenseID := uuid.New()

	t.Run("returns 404 on unknown expense", func(t *testing.T) {
		svc := &mockExpenseService{
			updateExpenseFn: func(_ string, _ *decimal.Decimal, _, _ *string, _ *time.Time, _ *string) (*models.Expense, error) {
				return nil, apperrors.ErrExpenseNotFound
			},
		}
		handler := NewExpenseHandler(svc)
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "PATCH", "/expenses/"+expenseID, `{"description":"renamed"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		handler := NewExpenseHandler(&mockExpenseService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "PATCH", "/expenses/not-a-uuid", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_ExportExpenses(t *testing.T) {
	svc := &mockExpenseService{
		exportCSVFn: func(_ services.ExpenseFilter) ([]byte, error) {
			return []byte("date,amount,category,description,place,period_id\n2025-07-22T10:00:00Z,12.50,dining,coffee,,\n"), nil
		},
	}
	handler := NewExpenseHandler(svc)
	r := setupExpenseRouter(handler)

	rec := doRequest(r, "GET", "/expenses/export", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv content type, got %s", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "expenses.csv") {
		t.Errorf("expected attachment disposition, got %s", cd)
	}
	if !strings.Contains(rec.Body.String(), "12.50") {
		t.Error("expected CSV body with expense row")
	}
}
