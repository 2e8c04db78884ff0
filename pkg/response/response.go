package response

import (
	"net/http"
)

// ErrorBody is the wire shape every failing endpoint returns
type ErrorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// Error codes shared between the activation protocol and the table API.
// Codes are part of the wire contract consumed by the desktop client.
const (
	CodeInvalidFormat     = "invalid_format"
	CodeInvalidKey        = "invalid_key"
	CodeInvalidInput      = "invalid_input"
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeNotFound          = "not_found"
	CodeMaxSeatsReached   = "max_seats_reached"
	CodeLinkFailed        = "link_failed"
	CodeOrgCreationFailed = "org_creation_failed"
	CodeInsertFailed      = "insert_failed"
	CodeRateLimited       = "rate_limited"
	CodeInternalError     = "internal_error"
)

// codeToStatus maps error codes to HTTP status codes
var codeToStatus = map[string]int{
	CodeInvalidFormat:     http.StatusBadRequest,
	CodeInvalidKey:        http.StatusBadRequest,
	CodeInvalidInput:      http.StatusBadRequest,
	CodeUnauthorized:      http.StatusUnauthorized,
	CodeForbidden:         http.StatusForbidden,
	CodeNotFound:          http.StatusNotFound,
	CodeMaxSeatsReached:   http.StatusForbidden,
	CodeLinkFailed:        http.StatusInternalServerError,
	CodeOrgCreationFailed: http.StatusInternalServerError,
	CodeInsertFailed:      http.StatusInternalServerError,
	CodeRateLimited:       http.StatusTooManyRequests,
	CodeInternalError:     http.StatusInternalServerError,
}

// StatusFor returns the HTTP status code for an error code
func StatusFor(code string) int {
	if status, ok := codeToStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Err builds an error body for a code
func Err(code string) *ErrorBody {
	return &ErrorBody{Error: code}
}

// ErrWithDetail builds an error body with a human-readable detail
func ErrWithDetail(code, detail string) *ErrorBody {
	return &ErrorBody{Error: code, Detail: detail}
}
