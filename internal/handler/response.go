package handler

// RESPONSE HELPERS:
// Every response body has one of two shapes.
//
// Success (the warning appears only when a change was applied but could not
// be saved):
//
//	{"data": {...}, "warning": "changes were applied but could not be saved (posts): ..."}
//
// Failure:
//
//	{"error": "duplicate_email", "message": "a user with email ana@mit.edu already exists"}
//
// The frontend always knows which fields to expect, whatever the status.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/campus-connect/internal/apperror"
)

// Response wraps every successful payload.
type Response struct {
	Data    any    `json:"data"`
	Warning string `json:"warning,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`           // Machine-readable kind (e.g. "not_found")
	Message string `json:"message"`         // Human-readable description
	Field   string `json:"field,omitempty"` // Offending input field, for validation errors
}

// writeJSON sends v with the given status. Headers must be set before the
// status, and the status before the body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already sent; logging is all we can do.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeData sends data in the success envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Data: data})
}

// writeResult handles the (result, err) pair returned by repository
// mutations.
//
//   - err == nil: success envelope with status
//   - apperror.IsWarning(err): success envelope with status plus a warning,
//     since the change is live even though it was not saved
//   - anything else: error envelope
func writeResult(w http.ResponseWriter, status int, data any, err error) {
	switch {
	case err == nil:
		writeData(w, status, data)
	case apperror.IsWarning(err):
		writeJSON(w, status, Response{Data: data, Warning: err.Error()})
	default:
		writeError(w, err)
	}
}

// writeError maps a domain error to its HTTP status and error kind.
//
// errors.Is walks the Unwrap chain, so this works for wrapped errors and
// for errors.Join results alike. Unknown errors become a generic 500 and
// their text is never sent to the client.
func writeError(w http.ResponseWriter, err error) {
	status, kind := classify(err)

	var appErr *apperror.AppError
	if status == http.StatusInternalServerError || !errors.As(err, &appErr) {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return
	}

	writeJSON(w, status, ErrorResponse{
		Error:   kind,
		Message: appErr.Message,
		Field:   appErr.Field,
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, apperror.ErrNoActiveSession):
		return http.StatusUnauthorized, "no_active_session"
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrDuplicateEmail):
		return http.StatusConflict, "duplicate_email"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
