// Package handler wires HTTP requests to the service layer. Request payloads
// are validated here; anything deeper (uniqueness, existence) is the
// services' concern and surfaces as sentinel errors.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"todo-admin-service/internal/http/response"
)

// validationErrors collects field-keyed messages for a VALIDATION_FAILED
// response, in the message style admin frontends already parse.
type validationErrors map[string][]string

func (v validationErrors) add(field, message string) {
	v[field] = append(v[field], message)
}

func (v validationErrors) write(w http.ResponseWriter, r *http.Request) bool {
	if len(v) == 0 {
		return false
	}
	response.Error(w, r, http.StatusBadRequest, "VALIDATION_FAILED", "validation failed", v)
	return true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return false
	}
	return true
}

func idParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id64, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id64 == 0 {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid id", nil)
		return 0, false
	}
	return uint(id64), true
}

// listPayload is the common list response shape: the page itself, plus the
// echoed filter state so clients can render their current controls.
type listPayload struct {
	Items      any `json:"items"`
	Pagination any `json:"pagination"`
	Filters    any `json:"filters"`
}

// messagePayload wraps a mutated record with its flash-style message.
type messagePayload struct {
	Item    any    `json:"item,omitempty"`
	Message string `json:"message"`
}

// bulkPayload reports a bulk mutation outcome.
type bulkPayload struct {
	Count   int64  `json:"count"`
	Message string `json:"message"`
}
