// Package web holds the small HTTP helpers shared by all handlers.
package web

import (
	"encoding/json"
	"net/http"

	"github.com/charmheroku/railway-station/internal/common/apperr"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Kind   string            `json:"kind"`
	Fields map[string]string `json:"fields,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// WriteError renders any error through the apperr taxonomy, so storage
// and validation failures come out with a stable shape and status.
func WriteError(w http.ResponseWriter, err error) {
	appErr := apperr.As(err)
	WriteJSON(w, appErr.HTTPStatus(), errorResponse{
		Error:  appErr.Message,
		Kind:   string(appErr.Kind),
		Fields: appErr.Fields,
	})
}
