package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response body: every endpoint, success or failure,
// replies with a message, the status code repeated in the body, and an
// optional data payload.
type Envelope struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
}

// Write sends an enveloped JSON response with the given status code.
func Write(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{
		Message:    message,
		StatusCode: status,
		Data:       data,
	})
}

// Error sends an enveloped failure with no data payload.
func Error(w http.ResponseWriter, status int, message string) {
	Write(w, status, message, nil)
}
