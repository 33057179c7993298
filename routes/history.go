package routes

import (
	"net/http"

	"waveforge/artifact"
	"waveforge/failures"
	"waveforge/logger"
	"waveforge/success"
)

// FailureQueryHandler handles GET /api/failures?id=: looks up the recorded
// failure for one job identifier.
func FailureQueryHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if !artifact.ValidateID(id) {
		writeError(w, http.StatusBadRequest, "Invalid file identifier")
		return
	}

	record, err := failures.GetFailure(id)
	if err != nil {
		logger.Errorf("Failed to query failure for %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "No failure recorded for this identifier")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// FailureListHandler handles GET /api/failures/list.
func FailureListHandler(w http.ResponseWriter, r *http.Request) {
	records, err := failures.ListFailures()
	if err != nil {
		logger.Errorf("Failed to list failures: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if records == nil {
		records = []failures.FailureRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// SuccessQueryHandler handles GET /api/success?id=.
func SuccessQueryHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if !artifact.ValidateID(id) {
		writeError(w, http.StatusBadRequest, "Invalid file identifier")
		return
	}

	record, err := success.GetSuccess(id)
	if err != nil {
		logger.Errorf("Failed to query success record for %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "No conversion recorded for this identifier")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// SuccessListHandler handles GET /api/success/list.
func SuccessListHandler(w http.ResponseWriter, r *http.Request) {
	records, err := success.ListSuccessRecords()
	if err != nil {
		logger.Errorf("Failed to list success records: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if records == nil {
		records = []success.SuccessRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
