package api

import (
	"encoding/json"
	"net/http"
)

// Error is the failure envelope. Status mirrors the success envelope's
// status field and is "error" or "busy", never an HTTP code; the
// human-readable detail travels in the "error" key.
type Error struct {
	Status  string `json:"status"`
	Message string `json:"error"`
}

// Status values used in response envelopes.
const (
	StatusOK    = "ok"
	StatusError = "error"
	StatusBusy  = "busy"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a failure envelope with the given HTTP code.
func writeError(w http.ResponseWriter, httpStatus int, status, message string) {
	writeJSON(w, httpStatus, Error{
		Status:  status,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, StatusError, message)
}

// writeBusy writes a 429 error response for the single-command gate.
func writeBusy(w http.ResponseWriter, message string) {
	writeError(w, http.StatusTooManyRequests, StatusBusy, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, StatusError, message)
}
