// Package httpapi is the Gateway HTTP shim: thin request/response
// plumbing around the four core operations. It assumes a caller has
// already been authenticated and tenant-scoped (spec §6); all
// authorization/precondition logic lives in the engines it calls.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/padelhub/tournament-core/apperr"
)

func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError maps a core error to the HTTP status spec §6 assigns its
// apperr.Kind, mirroring the teacher's mapServiceErrorToHTTP shape.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindInternal:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, errorBody{Error: appErr.Msg, Code: appErr.Code})
}
