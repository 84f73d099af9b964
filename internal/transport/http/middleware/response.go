package middleware

import (
	"encoding/json"
	"net/http"
)

type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// writeJSONError writes the standard error envelope with the correct
// Content-Type.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Success: false, Message: msg})
}
