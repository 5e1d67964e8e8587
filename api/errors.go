package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/customer-support-api/agent/contract"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Int("status", status).Msg("write json response")
	}
}

// WriteDetail writes {"detail": message}.
func WriteDetail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, contractx.ErrorDetail{Detail: message})
}

// WriteValidationError writes a 422 with one entry per offending field.
func WriteValidationError(w http.ResponseWriter, errs []contractx.FieldError) {
	writeJSON(w, http.StatusUnprocessableEntity, contractx.ErrorDetail{Detail: errs})
}
