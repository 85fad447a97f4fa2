package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	ierrors "github.com/imaginify-dev/imaginify/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError answers with the JSON form of err. Coded errors map to a
// status by category; anything else is normalized, logged and answered
// with 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var e *ierrors.Error
	if errors.As(err, &e) && e.Code != "" {
		writeJSON(w, statusFor(e), e)
		return
	}
	writeJSON(w, http.StatusInternalServerError, ierrors.Normalize(logger, err))
}

func statusFor(e *ierrors.Error) int {
	switch {
	case e.Code == "E140":
		return http.StatusNotFound
	case e.Category == ierrors.CategoryValidation, e.Category == ierrors.CategoryTransform:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
