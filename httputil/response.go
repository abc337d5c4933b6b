// Package httputil holds the JSON response helpers shared by the services.
package httputil

import (
	"encoding/json"
	"net/http"
)

// JSONResponse writes data as JSON with the given status code.
func JSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ErrorResponse writes {"error": message}.
func ErrorResponse(w http.ResponseWriter, status int, message string) {
	JSONResponse(w, status, map[string]string{"error": message})
}

// Healthz answers liveness probes.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
