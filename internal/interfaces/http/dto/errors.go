package dto

import "net/http"

// Error codes returned to API clients. Format: ERR_<DESCRIPTION>
const (
	ErrCodeInternal    = "ERR_INTERNAL"
	ErrCodeBadRequest  = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	ErrCodeValidation  = "ERR_VALIDATION"
	ErrCodeNotFound    = "ERR_NOT_FOUND"
	ErrCodeTooLarge    = "ERR_REQUEST_TOO_LARGE"
)

// Amendment error codes
const (
	ErrCodeCutoffExceeded        = "ERR_CUTOFF_EXCEEDED"
	ErrCodeRouteNotFound         = "ERR_ROUTE_NOT_FOUND"
	ErrCodeTariffNotFound        = "ERR_TARIFF_NOT_FOUND"
	ErrCodeAmbiguousTariff       = "ERR_AMBIGUOUS_TARIFF"
	ErrCodeContainerTypeNotFound = "ERR_CONTAINER_TYPE_NOT_FOUND"
	ErrCodeFeeRateNotFound       = "ERR_FEE_RATE_NOT_FOUND"
	ErrCodeAmbiguousFeeRate      = "ERR_AMBIGUOUS_FEE_RATE"
	ErrCodeInvoiceNotFound       = "ERR_INVOICE_NOT_FOUND"
	ErrCodeTransactionFailure    = "ERR_TRANSACTION_FAILURE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Reference data gaps are server-side faults: the amendment was not applied
// and the client cannot fix it by changing the request.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,
	ErrCodeValidation:  http.StatusUnprocessableEntity,
	ErrCodeNotFound:    http.StatusNotFound,
	ErrCodeTooLarge:    http.StatusRequestEntityTooLarge,

	ErrCodeCutoffExceeded: http.StatusForbidden,

	ErrCodeRouteNotFound:         http.StatusInternalServerError,
	ErrCodeTariffNotFound:        http.StatusInternalServerError,
	ErrCodeAmbiguousTariff:       http.StatusInternalServerError,
	ErrCodeContainerTypeNotFound: http.StatusInternalServerError,
	ErrCodeFeeRateNotFound:       http.StatusInternalServerError,
	ErrCodeAmbiguousFeeRate:      http.StatusInternalServerError,
	ErrCodeInvoiceNotFound:       http.StatusInternalServerError,
	ErrCodeTransactionFailure:    http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeMapping maps domain error codes to API error codes
var domainCodeMapping = map[string]string{
	"VALIDATION_ERROR":         ErrCodeValidation,
	"INVALID_INPUT":            ErrCodeBadRequest,
	"NOT_FOUND":                ErrCodeNotFound,
	"CUTOFF_EXCEEDED":          ErrCodeCutoffExceeded,
	"ROUTE_NOT_FOUND":          ErrCodeRouteNotFound,
	"TARIFF_NOT_FOUND":         ErrCodeTariffNotFound,
	"AMBIGUOUS_TARIFF":         ErrCodeAmbiguousTariff,
	"CONTAINER_TYPE_NOT_FOUND": ErrCodeContainerTypeNotFound,
	"FEE_RATE_NOT_FOUND":       ErrCodeFeeRateNotFound,
	"AMBIGUOUS_FEE_RATE":       ErrCodeAmbiguousFeeRate,
	"INVOICE_NOT_FOUND":        ErrCodeInvoiceNotFound,
	"TRANSACTION_FAILURE":      ErrCodeTransactionFailure,
}

// NormalizeErrorCode converts a domain error code to its API error code.
// Unknown codes map to ERR_INTERNAL.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainCodeMapping[code]; ok {
		return apiCode
	}
	return ErrCodeInternal
}
