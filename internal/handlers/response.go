package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-auth-service/internal/logger"
	"github.com/sbilibin2017/gw-auth-service/internal/models"
)

// writeEnvelope wraps the payload in the {region, data} envelope and writes it
// with the given status code.
func writeEnvelope(w http.ResponseWriter, region string, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(models.Envelope{Region: region, Data: data}); err != nil {
		logger.Log.Errorw("failed to encode response", "err", err)
	}
}

// writeError wraps an error message in the envelope.
func writeError(w http.ResponseWriter, region string, statusCode int, message string) {
	writeEnvelope(w, region, statusCode, models.ErrorResponse{Error: message})
}

// decodeBody decodes a JSON request body into dst, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
