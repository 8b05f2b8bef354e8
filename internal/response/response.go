// Package response writes the uniform JSON envelope every endpoint uses:
// {success, statusCode, message, data, error}.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type Envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
	Error      any    `json:"error"`
}

// JSON writes a success envelope. Data may be nil.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, Envelope{
		Success:    true,
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

// Error writes a failure envelope with a human-readable message.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{
		Success:    false,
		StatusCode: status,
		Message:    message,
	})
}

// ErrorDetail writes a failure envelope carrying extra error detail.
func ErrorDetail(w http.ResponseWriter, status int, message string, detail any) {
	write(w, status, Envelope{
		Success:    false,
		StatusCode: status,
		Message:    message,
		Error:      detail,
	})
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
