package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"atomic-explorer/aihub/pkg/providers"
	"atomic-explorer/aihub/pkg/routing"
)

// ErrorResponse is the error envelope returned by every API endpoint.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one client-visible error.
type ErrorDetail struct {
	// Message is a human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error.
	Type string `json:"type"`

	// Param names the request field that caused the error, when there is one.
	Param string `json:"param,omitempty"`

	// Code is a machine-readable error code.
	Code string `json:"code,omitempty"`
}

// Error types.
const (
	ErrorTypeInvalidRequest = "invalid_request_error"
	ErrorTypeServerError    = "server_error"
)

// Error codes.
const (
	CodeInvalidJSON  = "invalid_json"
	CodeMissingField = "missing_field"
	CodeBodyTooLarge = "body_too_large"
)

// Degraded chat codes. They replace the gateway error in ChatResponse so
// clients never see provider identifiers or upstream error bodies.
const (
	CodeExhausted     = "exhausted"
	CodeConfiguration = "configuration"
	CodeCanceled      = "canceled"
	CodeUnavailable   = "unavailable"
)

// degradedCode classifies a gateway failure for clients.
func degradedCode(err error) string {
	switch {
	case errors.Is(err, routing.ErrExhausted):
		return CodeExhausted
	case errors.Is(err, providers.ErrConfiguration):
		return CodeConfiguration
	case errors.Is(err, routing.ErrCanceled):
		return CodeCanceled
	default:
		return CodeUnavailable
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, errType, code, param, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{
		Message: message,
		Type:    errType,
		Param:   param,
		Code:    code,
	}})
}
