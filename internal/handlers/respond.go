// Package handlers implements the JSON API surface: authentication,
// school administration CRUD, card template management, and card PDF
// rendering endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"scolaris/internal/card"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// writeError sends a JSON error body. Messages are client-facing; internal
// detail belongs in the log, not the response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the typed card errors onto HTTP statuses. Unknown
// errors are logged and reported as a plain 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var nf card.NotFoundError
	if errors.As(err, &nf) {
		writeError(w, http.StatusNotFound, nf.Error())
		return
	}

	var le card.LayoutError
	if errors.As(err, &le) {
		// A bad layout on an active template is an operator problem, not a
		// client one, but the message names the record and element so the
		// template can be fixed.
		writeError(w, http.StatusUnprocessableEntity, le.Error())
		return
	}

	var re card.ResolutionError
	if errors.As(err, &re) {
		writeError(w, http.StatusUnprocessableEntity, re.Error())
		return
	}

	var be card.BackendError
	if errors.As(err, &be) {
		slog.Error("render backend failure", "op", be.Op, "error", be.Err)
		writeError(w, http.StatusInternalServerError, "card rendering failed")
		return
	}

	slog.Error("unhandled error", "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// decodeJSON parses the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
