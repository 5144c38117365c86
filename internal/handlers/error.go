package handlers

import "github.com/cobranzahq/cobranza/internal/httperr"

// ErrorResponse is the standard API error envelope.
type ErrorResponse struct {
	Error httperr.Error `json:"error"`
}
