package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/observability"
	"github.com/BizKey/webaggregator/internal/simulation"
	"github.com/BizKey/webaggregator/internal/storage"
)

// envelope wraps every successful JSON response.
type envelope struct {
	Status    string `json:"status"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Data      any    `json:"data"`
}

type errorBody struct {
	Status    string `json:"status"`
	Error     string `json:"error"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

func writeRaw(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeData writes data in the standard envelope.
func writeData(w http.ResponseWriter, start time.Time, data any) {
	writeRaw(w, http.StatusOK, envelope{Status: simulation.StatusOK, ElapsedMs: elapsedMs(start), Data: data})
}

// notModified sets the ETag and reports whether the client already holds reportID.
// A 304 has been written when it returns true.
func notModified(w http.ResponseWriter, r *http.Request, reportID string) bool {
	etag := `"` + reportID + `"`
	w.Header().Set(ETagHeader, etag)
	if match := r.Header.Get("If-None-Match"); match != "" && (match == etag || match == "*") {
		observability.RecordNotModified()
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

// writeReport writes a computed report with its ETag, or 304 when unchanged.
func writeReport(w http.ResponseWriter, r *http.Request, start time.Time, reportID string, data any) {
	if notModified(w, r, reportID) {
		return
	}
	writeData(w, start, data)
}

// writeText writes a plain-text report with its ETag, or 304 when unchanged.
func writeText(w http.ResponseWriter, r *http.Request, contentType, reportID, body string) {
	if notModified(w, r, reportID) {
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// writeError maps err onto an HTTP status. Insufficient data is a reported
// condition answered with 200; unclassified errors are logged and hidden.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, start time.Time, err error) {
	body := errorBody{Status: "error", Error: err.Error(), ElapsedMs: elapsedMs(start)}
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrInsufficientData):
		status = http.StatusOK
		body.Status = simulation.StatusInsufficientData
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrDegenerateParameter),
		errors.Is(err, storage.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	}

	var event *zerolog.Event
	if status == http.StatusInternalServerError {
		event = s.logger.Error()
		body.Error = "internal server error"
	} else {
		event = s.logger.Debug()
	}
	event.Err(err).
		Str("request_id", RequestIDFrom(r.Context())).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("request failed")

	writeRaw(w, status, body)
}
