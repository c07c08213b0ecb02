package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Martin09/GrandmaTVController/internal/tvcontrol"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	r.Get("/", s.handleRemotePage)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/actions", s.handleListActions)
		r.Post("/action/{name}", s.handleAction)
	})

	if s.metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// handleRemotePage serves the pre-rendered remote-control page.
func (s *Server) handleRemotePage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Best-effort write to response; connection may be closed
	w.Write(s.page)
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

// handleListActions returns every executable action name.
func (s *Server) handleListActions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"actions": s.commander.Actions(),
	})
}

// handleAction executes a named action and reports its outcome.
//
// The request blocks until the command finishes; a command that triggers a
// wake cycle can take tens of seconds. Status codes:
//
//	200 command ran (the message says whether the TV obeyed)
//	400 unknown action name
//	429 another command is already running
//	500 unexpected failure
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	msg, err := s.commander.Execute(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, tvcontrol.ErrUnknownAction):
			writeBadRequest(w, "unknown action: "+name)
		case errors.Is(err, tvcontrol.ErrBusy):
			writeBusy(w, "another command is already running, try again shortly")
		default:
			writeInternalError(w, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  StatusOK,
		"action":  name,
		"message": msg,
	})
}
