package httperrors

import (
	"encoding/json"
	"net/http"
)

// APIError is the envelope used for every non-2xx response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Write renders any payload as JSON with the given status. Error responses
// pass an APIError, success responses pass their DTO.
func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
