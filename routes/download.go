package routes

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"waveforge/artifact"
	"waveforge/logger"
)

// DownloadHandler handles GET /api/download/{fileId}: streams the output
// artifact exactly once and deletes it.
func (h *Handlers) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileId"]

	path, format, err := h.Store.Resolve(fileID)
	if err != nil {
		if errors.Is(err, artifact.ErrBadID) {
			writeError(w, http.StatusBadRequest, "Invalid file identifier")
			return
		}
		writeError(w, http.StatusNotFound, "File not found or expired")
		return
	}

	if err := h.Store.ServeAndDelete(w, path, format); err != nil {
		// The artifact can vanish between resolve and open if the sweeper
		// or a concurrent download got there first.
		if errors.Is(err, artifact.ErrNotFound) {
			writeError(w, http.StatusNotFound, "File not found or expired")
			return
		}
		logger.Errorf("Failed to serve %s: %v", fileID, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
