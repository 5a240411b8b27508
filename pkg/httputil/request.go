package httputil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// ParseJSONOrError decodes the request body into dst. On failure it writes
// a 400 response and returns false.
func ParseJSONOrError(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteBadRequest(w, "invalid JSON body")
		return false
	}
	return true
}

// RequireNonEmpty writes a 400 response and returns false when value is
// empty.
func RequireNonEmpty(w http.ResponseWriter, value, field string) bool {
	if value == "" {
		WriteBadRequest(w, field+" is required")
		return false
	}
	return true
}

// GetPathVars returns the mux path variables for the request.
func GetPathVars(r *http.Request) map[string]string {
	return mux.Vars(r)
}

// PathInt64 parses an int64 path variable. On failure it writes a 400
// response and returns false.
func PathInt64(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		WriteBadRequest(w, "invalid "+name)
		return 0, false
	}
	return id, true
}
