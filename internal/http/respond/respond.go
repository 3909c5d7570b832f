package respond

import (
	"encoding/json"
	"net/http"

	zlog "github.com/rs/zerolog/log"
)

// Stable error codes carried in Envelope.Error.
const (
	CodeInvalidRequest     = "invalid_request"
	CodeCapacityExceeded   = "capacity_exceeded"
	CodeInvalidCredentials = "invalid_credentials"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes a success or informational response using the common envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, Envelope{Code: status, Message: message, Data: data})
}

// Error writes an error response with the shared envelope structure.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Code: status, Message: message})
}

// ErrorCode is Error with a stable machine-readable reason.
func ErrorCode(w http.ResponseWriter, status int, code, message string) {
	write(w, status, Envelope{Code: status, Message: message, Error: code})
}

func write(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zlog.Error().Err(err).Msg("respond: encode payload failed")
	}
}
