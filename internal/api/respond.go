package api

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"autorent/internal/apperrors"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps the error kind to its HTTP status. Internal errors get a
// generic message; the real cause only goes to the log.
func writeError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)
	status := apperrors.HTTPStatus(kind)
	message := err.Error()
	if kind == apperrors.KindInternal {
		logrus.Errorf("Internal error: %v", err)
		message = "Internal server error"
	}
	writeJSON(w, status, errorResponse{Error: message})
}
