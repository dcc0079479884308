package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "centsible/internal/errors"
	"centsible/internal/pagination"
	"centsible/internal/services"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents the request payload for recording an expense.
type CreateExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"max=500"`
	Category    string          `json:"category" binding:"max=100"`
	OccurredAt  *time.Time      `json:"occurred_at"`
	PlaceID     *string         `json:"place_id" binding:"omitempty,uuid"`
}

// UpdateExpenseRequest represents the request payload for updating an expense.
type UpdateExpenseRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	OccurredAt  *time.Time       `json:"occurred_at"`
	PlaceID     *string          `json:"place_id" binding:"omitempty,uuid"`
}

// ExpenseFilterRequest holds the query-string filters for listing expenses.
type ExpenseFilterRequest struct {
	From      *time.Time       `form:"from" time_format:"2006-01-02"`
	To        *time.Time       `form:"to" time_format:"2006-01-02"`
	Category  *string          `form:"category"`
	PlaceID   *string          `form:"place_id" binding:"omitempty,uuid"`
	MinAmount *decimal.Decimal `form:"min_amount"`
	MaxAmount *decimal.Decimal `form:"max_amount"`
	Orphaned  *bool            `form:"orphaned"`
}

func (r *ExpenseFilterRequest) toFilter() services.ExpenseFilter {
	return services.ExpenseFilter{
		FromDate:  r.From,
		ToDate:    r.To,
		Category:  r.Category,
		PlaceID:   r.PlaceID,
		MinAmount: r.MinAmount,
		MaxAmount: r.MaxAmount,
		Orphaned:  r.Orphaned,
	}
}

// CreateExpense handles recording a new expense.
// @Summary     Record an expense
// @Description Record a new expense. It is attached to the period covering its date, or stored as an orphan.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Place not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	occurredAt := time.Now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	expense, err := h.expenseService.CreateExpense(req.Amount, req.Description, req.Category, occurredAt, req.PlaceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses handles listing expenses with filters.
// @Summary     Get expenses
// @Description Get a paginated, filtered list of expenses, newest first
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       from       query string false "Earliest date (YYYY-MM-DD)"
// @Param       to         query string false "Latest date (YYYY-MM-DD)"
// @Param       category   query string false "Filter by category"
// @Param       place_id   query string false "Filter by place"
// @Param       min_amount query string false "Minimum amount"
// @Param       max_amount query string false "Maximum amount"
// @Param       orphaned   query bool   false "Only orphans (true) or only attached (false)"
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter ExpenseFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.expenseService.GetExpenses(page, filter.toFilter())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExpense handles fetching a single expense.
// @Summary     Get an expense
// @Description Get an expense by ID with its place and period
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles updating an expense.
// @Summary     Update an expense
// @Description Update an expense. Changing the date re-resolves its period attachment.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to update"
// @Success     200 {object} models.Expense "Expense updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [patch]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.UpdateExpense(expenseID, req.Amount, req.Description, req.Category, req.OccurredAt, req.PlaceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles deleting an expense.
// @Summary     Delete an expense
// @Description Delete an expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     204 "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ExportExpenses handles CSV export of filtered expenses.
// @Summary     Export expenses as CSV
// @Description Export the filtered expenses as a CSV file, oldest first
// @Tags        expenses
// @Accept      json
// @Produce     text/csv
// @Security    BearerAuth
// @Param       from     query string false "Earliest date (YYYY-MM-DD)"
// @Param       to       query string false "Latest date (YYYY-MM-DD)"
// @Param       category query string false "Filter by category"
// @Success     200 {string} string "CSV document"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/export [get]
func (h *ExpenseHandler) ExportExpenses(c *gin.Context) {
	var filter ExpenseFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	data, err := h.expenseService.ExportCSV(filter.toFilter())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="expenses.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}
