package shared

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError describes a single invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DomainError represents a domain-level error
type DomainError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a DomainError with the same code.
// This lets wrapped copies of the sentinels below match with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause returns a copy of the error carrying the given cause
func (e *DomainError) WithCause(cause error) *DomainError {
	cp := *e
	cp.cause = cause
	return &cp
}

// WithMessage returns a copy of the error with a more specific message
func (e *DomainError) WithMessage(format string, args ...any) *DomainError {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a VALIDATION_ERROR carrying per-field messages
func NewValidationError(details []FieldError) *DomainError {
	fields := make([]string, 0, len(details))
	for _, d := range details {
		fields = append(fields, d.Field)
	}
	return &DomainError{
		Code:    ErrValidation.Code,
		Message: "Invalid fields: " + strings.Join(fields, ", "),
		Details: details,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrValidation          = NewDomainError("VALIDATION_ERROR", "Request validation failed")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Amendment policy and data-integrity errors
var (
	ErrCutoffExceeded        = NewDomainError("CUTOFF_EXCEEDED", "Amendment cutoff has passed for this booking")
	ErrRouteNotFound         = NewDomainError("ROUTE_NOT_FOUND", "No quotation routing matches the requested ports")
	ErrTariffNotFound        = NewDomainError("TARIFF_NOT_FOUND", "No current tariff matches the route")
	ErrAmbiguousTariff       = NewDomainError("AMBIGUOUS_TARIFF", "More than one current tariff matches the route")
	ErrContainerTypeNotFound = NewDomainError("CONTAINER_TYPE_NOT_FOUND", "Container type is not defined")
	ErrFeeRateNotFound       = NewDomainError("FEE_RATE_NOT_FOUND", "Late amendment fee rate is not defined")
	ErrAmbiguousFeeRate      = NewDomainError("AMBIGUOUS_FEE_RATE", "More than one late amendment fee rate is defined")
	ErrInvoiceNotFound       = NewDomainError("INVOICE_NOT_FOUND", "Booking has no invoice")
	ErrTransactionFailure    = NewDomainError("TRANSACTION_FAILURE", "Amendment transaction failed")
)

// IsDataIntegrity reports whether err signals a reference-data gap rather than bad input
func IsDataIntegrity(err error) bool {
	for _, target := range []*DomainError{
		ErrRouteNotFound, ErrTariffNotFound, ErrAmbiguousTariff,
		ErrContainerTypeNotFound, ErrFeeRateNotFound, ErrAmbiguousFeeRate, ErrInvoiceNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
