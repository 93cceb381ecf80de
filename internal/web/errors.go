package web

// errors.go provides unified error response handling for the web layer.
// Technical errors are logged with full detail server-side; clients get
// the user-friendly message and support code from core.MapError.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/reconcile/internal/core"
	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs the technical error and writes the mapped
// user-friendly JSON response with the given status code.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   err.Error(),
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// writeError is the plain-message variant for cases with no underlying error.
func writeError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	respondError(w, r, errors.New(message), statusCode)
}

// writeJSON encodes v as JSON and writes it to w.
// Encoding errors are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// statusForError maps pipeline errors to HTTP status codes. Structural
// integrity violations and missing preconditions are conflicts; malformed
// input is a bad request.
func statusForError(err error) int {
	var dup *core.DuplicateKeyError
	if errors.As(err, &dup) {
		return http.StatusConflict
	}
	if errors.Is(err, core.ErrDatasetMissing) {
		return http.StatusConflict
	}
	return http.StatusBadRequest
}
