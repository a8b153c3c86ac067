package utils

import (
	"encoding/json"
	"net/http"
)

// JSONResponse sends v as a JSON response body with the given status
func JSONResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error sends the standard {"error": message} body every handler uses for
// failures
func Error(w http.ResponseWriter, status int, message string) {
	JSONResponse(w, status, map[string]string{"error": message})
}
