package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	errx "github.com/wayfarer-labs/itinerary-planner/internal/core/error"
	logx "github.com/wayfarer-labs/itinerary-planner/pkg/logger"
)

// ErrorResponse writes a JSON error body including the request ID.
func ErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteJSONResponse(w, r, status, map[string]any{
		"success":    false,
		"error":      message,
		"request_id": middleware.GetReqID(r.Context()),
	})
}

// WriteError maps err to its AppError status. Client errors carry the full
// cause, server-side failures only the safe message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := errx.StatusOf(err)
	message := errx.SystemErrorMessage

	var appErr *errx.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		if status < http.StatusInternalServerError {
			message = appErr.Error()
		}
	}
	ErrorResponse(w, r, status, message)
}

// WriteJSONResponse encodes data and writes it with status.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	js, err := json.Marshal(data)
	if err != nil {
		logx.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Failed to marshal JSON response")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(js); err != nil {
		logx.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Failed to write response body")
	}
}
