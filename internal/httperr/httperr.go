// Package httperr defines the API error taxonomy and its JSON envelope.
//
// Every failure a handler or middleware surfaces is one of these errors;
// the server's error handler renders them as {"error":{"message","code"}}.
package httperr

import "net/http"

// Stable machine-readable error codes.
const (
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeNoWorkspace  = "no_workspace"
	CodeNotFound     = "not_found"
	CodeValidation   = "validation_error"
	CodeInternal     = "internal"
)

// Error is an API-visible error with an HTTP status and a stable code.
type Error struct {
	Status  int               `json:"-"`
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// Unauthorized is the single 401 response. It deliberately carries no detail
// about why the credential was rejected.
func Unauthorized() *Error {
	return &Error{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: "Unauthorized"}
}

// Forbidden reports an explicit tenant-selection or cross-entity ownership
// failure.
func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Code: CodeForbidden, Message: message}
}

// NoWorkspace reports an authenticated caller with no membership at all.
func NoWorkspace() *Error {
	return &Error{Status: http.StatusForbidden, Code: CodeNoWorkspace, Message: "no workspace found for user"}
}

// NotFound covers both a genuinely missing resource and one owned by another
// workspace; the two cases are indistinguishable to the caller.
func NotFound(what string) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Message: what + " not found"}
}

// Validation reports a malformed request body or parameter.
func Validation(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Message: message}
}

// ValidationFields reports a malformed request with per-field detail.
func ValidationFields(message string, fields map[string]string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Message: message, Fields: fields}
}

// Internal is the generic 500; the cause is logged server-side only.
func Internal() *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "internal server error"}
}
