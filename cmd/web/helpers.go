package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/myrjola/fitcoach/internal/contexthelpers"
	"github.com/myrjola/fitcoach/internal/errors"
)

const maxRequestBodyBytes = 64 << 10

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	requestID := contexthelpers.RequestID(r.Context())
	if isAPIRequest(r) {
		app.writeJSON(w, r, http.StatusInternalServerError, errorResponse{
			Error:     http.StatusText(http.StatusInternalServerError),
			Fields:    nil,
			RequestID: requestID,
		})
		return
	}
	app.render(w, r, http.StatusInternalServerError, "error", errorTemplateData{RequestID: requestID})
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	if isAPIRequest(r) {
		app.errorJSON(w, r, http.StatusNotFound, http.StatusText(http.StatusNotFound))
		return
	}
	app.render(w, r, http.StatusNotFound, "not-found", nil)
}

type errorResponse struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

type errorTemplateData struct {
	RequestID string
}

func (app *application) errorJSON(w http.ResponseWriter, r *http.Request, status int, msg string) {
	app.writeJSON(w, r, status, errorResponse{Error: msg, Fields: nil, RequestID: ""})
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode response", errors.SlogError(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// decodeJSON decodes a single JSON object from the request body. Unknown fields and trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
