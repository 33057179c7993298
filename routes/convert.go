package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"waveforge/fetcher"
	"waveforge/job"
	"waveforge/logger"
	"waveforge/models"
	"waveforge/transcoder"
)

// ConvertRequest is the JSON body of the conversion endpoints.
type ConvertRequest struct {
	URL          string `json:"url"`
	OutputFormat string `json:"outputFormat"`
	Bitrate      string `json:"bitrate"`
}

// ConvertResponse references a finished conversion.
type ConvertResponse struct {
	Success     bool   `json:"success"`
	DownloadURL string `json:"downloadUrl"`
	FileID      string `json:"fileId"`
}

// parseConvertRequest decodes and validates a conversion request body.
// Validation failures surface as 400s with no side effects.
func parseConvertRequest(r *http.Request) (models.ConversionRequest, error) {
	var body ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return models.ConversionRequest{}, fmt.Errorf("invalid JSON body")
	}

	if body.URL == "" {
		return models.ConversionRequest{}, fmt.Errorf("url is required")
	}
	u, err := url.ParseRequestURI(body.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return models.ConversionRequest{}, fmt.Errorf("url must be a valid http(s) URL")
	}

	format, err := models.ParseFormat(body.OutputFormat)
	if err != nil {
		return models.ConversionRequest{}, err
	}

	bitrate := body.Bitrate
	if bitrate == "" {
		bitrate = models.DefaultBitrate
	}

	return models.ConversionRequest{URL: body.URL, Format: format, Bitrate: bitrate}, nil
}

// convertError maps a pipeline error to the user-visible message. Filesystem
// paths are never leaked; encoder diagnostics are passed through truncated.
func convertError(err error) string {
	var procErr *transcoder.ProcessError
	if errors.As(err, &procErr) {
		return "Audio conversion failed: " + truncateDiagnostics(procErr.Diagnostics)
	}
	var spawnErr *transcoder.SpawnError
	if errors.As(err, &spawnErr) {
		return "Audio encoder is not available"
	}
	var fetchErr *fetcher.Error
	if errors.As(err, &fetchErr) {
		if fetchErr.StatusCode != 0 {
			return fmt.Sprintf("Failed to download source audio: remote returned status %d", fetchErr.StatusCode)
		}
		return "Failed to download source audio"
	}
	if errors.Is(err, job.ErrOutputMissing) {
		return "Audio conversion failed"
	}
	return "Internal server error"
}

// ConvertHandler handles POST /api/convert: download, transcode and expose
// the result for a later download request.
func (h *Handlers) ConvertHandler(w http.ResponseWriter, r *http.Request) {
	req, err := parseConvertRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Work already handed to the network or the encoder runs to completion
	// even if the client goes away, so the job gets a fresh context rather
	// than the request's.
	result, err := h.Coordinator.Convert(context.Background(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, convertError(err))
		return
	}

	writeJSON(w, http.StatusOK, ConvertResponse{
		Success:     true,
		DownloadURL: "/api/download/" + result.FileID,
		FileID:      result.FileID,
	})
}

// ConvertDownloadHandler handles POST /api/convert-download: same pipeline,
// but the converted bytes stream back in the same response and no artifact
// outlives the request.
func (h *Handlers) ConvertDownloadHandler(w http.ResponseWriter, r *http.Request) {
	req, err := parseConvertRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.Coordinator.Convert(context.Background(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, convertError(err))
		return
	}

	if err := h.Store.ServeAndDelete(w, result.OutputPath, result.Format); err != nil {
		logger.Errorf("Failed to stream converted file %s: %v", result.FileID, err)
		writeError(w, http.StatusInternalServerError, "Failed to stream converted file")
	}
}
