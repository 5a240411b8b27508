// Package httputil provides HTTP handler utilities for consistent JSON
// responses and for mapping the auth error taxonomy onto status codes.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/stockade-io/stockade/pkg/auth"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteErrorMessage writes a JSON error response with a custom message.
func WriteErrorMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// Boundary messages for authentication failures. One generic string per
// failure class: which of unknown-user / wrong-password / inactive-account
// occurred must not be recoverable from the response.
const (
	msgUnauthorized = "invalid or missing credentials"
	msgForbidden    = "insufficient privileges"
	msgUnconfirmed  = "logout could not be confirmed, the session is still active"
	msgUnavailable  = "service temporarily unavailable, retry later"
)

// WriteAuthError maps an error from the access-control core to its status
// code with a fixed, non-enumerable message. Unavailable (503) is the only
// outcome a client should retry.
func WriteAuthError(w http.ResponseWriter, err error) {
	switch {
	case auth.IsUnavailable(err):
		WriteErrorMessage(w, http.StatusServiceUnavailable, msgUnavailable)
	case auth.IsRevocationUnconfirmed(err):
		WriteErrorMessage(w, http.StatusBadRequest, msgUnconfirmed)
	case auth.IsForbidden(err):
		WriteErrorMessage(w, http.StatusForbidden, msgForbidden)
	case auth.IsUnauthorized(err):
		WriteErrorMessage(w, http.StatusUnauthorized, msgUnauthorized)
	default:
		WriteErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}

// WriteBadRequest writes a bad request error (400).
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusBadRequest, message)
}

// WriteNotFound writes a not found error (404).
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteErrorMessage(w, http.StatusNotFound, message)
}

// WriteInternalError writes an internal server error response (500).
func WriteInternalError(w http.ResponseWriter, err error) {
	WriteErrorMessage(w, http.StatusInternalServerError, err.Error())
}

// WriteCreated writes a successful creation response (201) with JSON data.
func WriteCreated(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusCreated, data)
}

// WriteSuccess writes a successful response (200) with JSON data.
func WriteSuccess(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteNoContent writes a successful response with no body (204).
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
