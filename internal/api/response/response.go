// Package response writes the API's JSON bodies. Every handler goes
// through these two helpers so success and error payloads stay uniform
// across the trade, report and feed endpoints.
package response

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the error body shape. Error carries a stable message
// (usually an apperrors sentinel); Details is free-form context such as a
// validation field map, and is omitted when nil.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON writes data as JSON under the given status. A nil data
// writes the status alone, which is how 204 responses are sent. Encoding
// failures are logged; the status line has already gone out by then.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("response: encode failed: %v", err)
	}
}

// RespondError writes an ErrorResponse under the given status.
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	RespondJSON(w, status, ErrorResponse{Error: message, Details: details})
}
