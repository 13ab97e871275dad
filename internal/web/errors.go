package web

// errors.go turns errors into JSON responses.
//
// The technical error is logged with the request ID; the client gets the
// message from core.MapError with its support code.

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JonMunkholm/ratings/internal/core"
	"github.com/JonMunkholm/ratings/internal/logging"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes the mapped user message as JSON.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError || !core.IsUserFacing(err) {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// statusFor picks the HTTP status for an error returned by the core.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes), errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrTooManyLoads):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrSessionNotFound),
		errors.Is(err, core.ErrUnknownCategory),
		errors.Is(err, core.ErrUnknownItem):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidRequest),
		errors.Is(err, core.ErrNoFile),
		errors.Is(err, core.ErrInvalidRating),
		errors.Is(err, core.ErrUnknownLayout),
		errors.Is(err, core.ErrInvalidCSV),
		errors.Is(err, core.ErrEmptyFile):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrMissingCategory),
		errors.Is(err, core.ErrUnrecognizedTable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON encodes v as JSON with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}

// writeBody writes an already encoded body, logging a failed write.
func writeBody(w http.ResponseWriter, r *http.Request, body []byte) {
	if _, err := w.Write(body); err != nil {
		logging.FromContext(r.Context()).Error("response write error", "error", err, "bytes", len(body))
	}
}
