// Package errors provides custom error types for the Centsible API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Budget and period errors.
var (
	ErrBudgetNotFound = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrBudgetInvalid  = &AppError{Code: "BUDGET_INVALID", Message: "Budget has invalid recurrence fields", StatusCode: http.StatusBadRequest}
	ErrPeriodNotFound = &AppError{Code: "PERIOD_NOT_FOUND", Message: "Budget period not found", StatusCode: http.StatusNotFound}
	ErrPeriodOverlap  = &AppError{Code: "PERIOD_OVERLAP", Message: "Period overlaps an existing period for this budget", StatusCode: http.StatusConflict}
	ErrNoActivePeriod = &AppError{Code: "NO_ACTIVE_PERIOD", Message: "No budget period is currently active", StatusCode: http.StatusNotFound}

	// ErrStateInvariant means more than one budget is simultaneously active
	// or upcoming. The engine never auto-fixes this condition; it indicates
	// a non-transactional write somewhere else.
	ErrStateInvariant = &AppError{Code: "STATE_INVARIANT", Message: "Budget state invariant violated", StatusCode: http.StatusInternalServerError}
)

// Expense errors.
var (
	ErrExpenseNotFound = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrReceiptNotFound = &AppError{Code: "RECEIPT_NOT_FOUND", Message: "No receipt stored for this expense", StatusCode: http.StatusNotFound}
)

// Place errors.
var (
	ErrPlaceNotFound = &AppError{Code: "PLACE_NOT_FOUND", Message: "Place not found", StatusCode: http.StatusNotFound}
)

// Settings errors.
var (
	ErrInvalidTimezone = &AppError{Code: "INVALID_TIMEZONE", Message: "Unknown IANA timezone name", StatusCode: http.StatusBadRequest}
)
