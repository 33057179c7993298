package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"waveforge/artifact"
	"waveforge/job"
)

// Handlers bundles the collaborators the request handlers need.
type Handlers struct {
	Coordinator *job.Coordinator
	Store       *artifact.Store
}

// NewRouter wires every route. The limiter, when non-nil, guards the two
// conversion-initiating endpoints only; downloads are not rate limited.
func NewRouter(h *Handlers, limiter *ClientLimiter) *mux.Router {
	convert := h.ConvertHandler
	convertDownload := h.ConvertDownloadHandler
	if limiter != nil {
		convert = limiter.Wrap(convert)
		convertDownload = limiter.Wrap(convertDownload)
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/convert", convert).Methods(http.MethodPost)
	r.HandleFunc("/api/convert-download", convertDownload).Methods(http.MethodPost)
	r.HandleFunc("/api/download/{fileId}", h.DownloadHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/failures", FailureQueryHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/failures/list", FailureListHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/success", SuccessQueryHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/success/list", SuccessListHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/version", VersionHandler).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Endpoint not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}
