package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"visitor-console/internal/form"

	"go.uber.org/zap"
)

func jsonStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonOK(w http.ResponseWriter, v any) {
	jsonStatus(w, http.StatusOK, v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	jsonStatus(w, status, map[string]string{"error": msg})
}

// fail maps an error from a form or remote call onto a response. Field
// errors are shown to the user; anything else is logged and reported as a
// plain failure.
func (d *Deps) fail(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErrs form.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		jsonStatus(w, http.StatusUnprocessableEntity, map[string]any{"errors": fieldErrs})
	case errors.Is(err, form.ErrSubmitted):
		jsonError(w, err.Error(), http.StatusConflict)
	default:
		d.Logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		jsonError(w, "failed", http.StatusBadGateway)
	}
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	return json.NewDecoder(r.Body).Decode(v)
}
