package inspect

import (
	"encoding/json"
	"net/http"
)

type envelope map[string]any

// writeJSON sends a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// success sends 200 JSON: {"data": v}
func success(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, envelope{"data": v})
}

// fail sends a JSON error response: {"message": msg}
func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{"message": msg})
}
