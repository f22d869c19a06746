// Package errors provides the typed errors returned across the service
// boundary. Every mutating operation returns either its record or an
// *AppError; the HTTP adapter renders Code and Message and never Internal.
package errors

import (
	"fmt"
	"net/http"
)

// AppError is a structured application error with a stable code, a message
// fit for the user, an HTTP status and an optional wrapped cause.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches any AppError carrying the same code, so wrapped copies of a
// sentinel still satisfy errors.Is(err, ErrPlanNotFound).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap copies a sentinel and attaches an internal cause.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage copies a sentinel with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Validation returns a VALIDATION_ERROR naming the offending field.
func Validation(field, problem string) *AppError {
	return WithMessage(ErrValidation, field+" "+problem)
}

// Store wraps an underlying store failure. The cause is kept verbatim.
func Store(err error) *AppError {
	return Wrap(ErrStore, err)
}

// Authentication errors.
var (
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrForbidden    = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrValidation     = &AppError{Code: "VALIDATION_ERROR", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrStore          = &AppError{Code: "STORE_ERROR", Message: "Something went wrong, please try again", StatusCode: http.StatusInternalServerError}
	ErrDateParse      = &AppError{Code: "DATE_PARSE_ERROR", Message: "Stored date could not be read", StatusCode: http.StatusUnprocessableEntity}
	ErrInvalidState   = &AppError{Code: "INVALID_STATE", Message: "Operation not allowed in the current state", StatusCode: http.StatusConflict}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Budget hierarchy errors.
var (
	ErrBudgetNotFound       = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrPeriodNotFound       = &AppError{Code: "PERIOD_NOT_FOUND", Message: "Period not found", StatusCode: http.StatusNotFound}
	ErrPeriodClosed         = &AppError{Code: "PERIOD_CLOSED", Message: "Period is closed", StatusCode: http.StatusConflict}
	ErrSectionNotFound      = &AppError{Code: "SECTION_NOT_FOUND", Message: "Section not found", StatusCode: http.StatusNotFound}
	ErrMappingNotFound      = &AppError{Code: "MAPPING_NOT_FOUND", Message: "Category is not assigned to this section", StatusCode: http.StatusNotFound}
	ErrHeadCategoryNotFound = &AppError{Code: "HEAD_CATEGORY_NOT_FOUND", Message: "Head category not found", StatusCode: http.StatusNotFound}
	ErrCategoryNotFound     = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryInUse        = &AppError{Code: "CATEGORY_IN_USE", Message: "Category is used by existing transactions", StatusCode: http.StatusConflict}
)

// Ledger errors.
var (
	ErrPlanNotFound            = &AppError{Code: "PLAN_NOT_FOUND", Message: "Plan not found", StatusCode: http.StatusNotFound}
	ErrTransactionNotFound     = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrRecurringSeriesNotFound = &AppError{Code: "RECURRING_SERIES_NOT_FOUND", Message: "Recurring series not found", StatusCode: http.StatusNotFound}
	ErrLiabilityNotFound       = &AppError{Code: "LIABILITY_NOT_FOUND", Message: "Liability not found", StatusCode: http.StatusNotFound}
)
