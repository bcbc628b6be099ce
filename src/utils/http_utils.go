// backend/src/utils/http_utils.go
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/username/notional/backend/src/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// GenerateETag creates a SHA256 hash of the JSON representation of the data.
func GenerateETag(data interface{}) (string, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal data for ETag generation: %w", err)
	}
	hash := sha256.Sum256(jsonData)
	return hex.EncodeToString(hash[:]), nil
}

// SendJSON writes v as a JSON response with the given status.
func SendJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// SendJSONError sends {"error": message} with the given status.
func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	logger.L.Warn().Str("message", message).Int("statusCode", statusCode).Msg("Sending JSON error to client")
	SendJSON(w, statusCode, map[string]string{"error": message})
}
