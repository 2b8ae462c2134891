package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/flow"
	"github.com/tailored-agentic-units/journal/chain"
	"github.com/tailored-agentic-units/journal/command"
	"github.com/tailored-agentic-units/journal/form"
	"github.com/tailored-agentic-units/journal/session"
)

var ErrNoSubmission = errors.New("missing form submission")

// Runtime is the subset of bot.Runtime the handlers use.
type Runtime interface {
	Commands() []command.Info
	Start(ctx context.Context, name string) (session.Session, error)
	Submit(id string, submission form.Submission) *chain.Future[command.Result]
	Cancel(ctx context.Context, id string) error
}

// RegisterV1 mounts the v1 API on mux.
func RegisterV1(mux *flow.Mux, rt Runtime, logger *slog.Logger) {
	mux.Handle("/v1/command", ListCommandsHandler(rt), "GET")
	mux.Handle("/v1/command/:name", StartHandler(rt, logger), "POST")
	mux.Handle("/v1/session/:id", SubmitHandler(rt, logger), "POST")
	mux.Handle("/v1/session/:id", CancelHandler(rt, logger), "DELETE")
}

// ListCommandsHandler lists the registered commands.
func ListCommandsHandler(rt Runtime) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, rt.Commands())
	}
}

type startResponse struct {
	Session string     `json:"session"`
	Command string     `json:"command"`
	Form    *form.Form `json:"form"`
}

// StartHandler starts the named command and returns its session and form.
func StartHandler(rt Runtime, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := flow.Param(r.Context(), "name")
		logger := logger.With("command", name)

		logger.Debug("starting command")
		sess, err := rt.Start(r.Context(), name)
		if err != nil {
			logger.Info("starting command", "err", err)
			JSONError(w, err, StatusFor(err))
			return
		}

		resp := &startResponse{Session: sess.ID(), Command: sess.Command(), Form: sess.Form()}
		if err := writeJSON(w, http.StatusCreated, resp); err != nil {
			logger.Info("encoding json response", "err", err)
		}
	}
}

// SubmitHandler submits a form to a session and waits for the command to
// finish. A client that disconnects early does not stop the command; use
// DELETE to cancel it.
func SubmitHandler(rt Runtime, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := flow.Param(r.Context(), "id")
		logger := logger.With("session", id)

		var submission form.Submission
		if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
			logger.Info("decoding submission", "err", err)
			JSONError(w, errors.Join(ErrNoSubmission, err), http.StatusBadRequest)
			return
		}

		logger.Debug("submitting form", "fields", len(submission))
		res, err := rt.Submit(id, submission).Await(r.Context())
		if err != nil {
			logger.Info("submitting form", "err", err)
			JSONError(w, err, StatusFor(err))
			return
		}

		if err := writeJSON(w, http.StatusOK, res); err != nil {
			logger.Info("encoding json response", "err", err)
		}
	}
}

// CancelHandler cancels a session and any submission in flight.
func CancelHandler(rt Runtime, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := flow.Param(r.Context(), "id")
		logger := logger.With("session", id)

		logger.Debug("cancelling session")
		if err := rt.Cancel(r.Context(), id); err != nil {
			logger.Info("cancelling session", "err", err)
			JSONError(w, err, StatusFor(err))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
