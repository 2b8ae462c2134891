// Package api contains the JSON HTTP handlers that stand in for the chat
// transport: they start commands, accept form submissions, and cancel
// sessions on behalf of a conversation.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tailored-agentic-units/journal/bot"
	"github.com/tailored-agentic-units/journal/chain"
	"github.com/tailored-agentic-units/journal/command"
	"github.com/tailored-agentic-units/journal/command/createevent"
	"github.com/tailored-agentic-units/journal/session"
)

// JSONError encodes err as JSON to w.
func JSONError(w http.ResponseWriter, err error, statusCode int) {
	jsonErr := &struct {
		Err string `json:"error"`
	}{Err: err.Error()}
	w.Header().Set("Content-type", "application/json")
	if statusCode < 1 {
		statusCode = http.StatusInternalServerError
	}
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(jsonErr)
}

// StatusFor maps runtime errors to HTTP status codes. Unknown errors map to
// zero so JSONError falls back to 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, command.ErrNotFound), errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, bot.ErrSessionBusy):
		return http.StatusConflict
	case errors.Is(err, session.ErrLimit):
		return http.StatusServiceUnavailable
	case errors.Is(err, chain.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, createevent.ErrOwnerNotFound),
		errors.Is(err, createevent.ErrIntervalCreationFailed),
		errors.Is(err, createevent.ErrEventCreationFailed):
		return http.StatusUnprocessableEntity
	default:
		return 0
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
