package routes

import (
	"encoding/json"
	"net/http"

	"waveforge/logger"
)

// ErrorResponse is the JSON shape of every error the API returns.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Success: false, Error: msg})
}

// maxDiagnostics caps how much encoder stderr is echoed back to clients.
const maxDiagnostics = 2000

func truncateDiagnostics(s string) string {
	if len(s) > maxDiagnostics {
		return s[:maxDiagnostics] + "..."
	}
	return s
}
