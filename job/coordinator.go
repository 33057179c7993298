package job

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"waveforge/artifact"
	"waveforge/failures"
	"waveforge/logger"
	"waveforge/models"
	"waveforge/success"
)

// State names the phases of one conversion job. Exposed and Failed are
// terminal.
type State string

const (
	StateCreated     State = "created"
	StateDownloading State = "downloading"
	StateConverting  State = "converting"
	StateVerified    State = "verified"
	StateExposed     State = "exposed"
	StateFailed      State = "failed"
)

// ErrOutputMissing means the encoder exited successfully but left no regular
// output file behind. It is treated exactly like an encoding failure.
var ErrOutputMissing = errors.New("encoder reported success but produced no output file")

// Fetcher retrieves a remote source into a local file.
type Fetcher interface {
	Fetch(ctx context.Context, url, destPath string) error
}

// Transcoder converts a local input file into the requested output format.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath, outputPath string, format models.Format, bitrate string) error
}

// Archiver exports a finished artifact to secondary storage.
type Archiver interface {
	Archive(ctx context.Context, filename string, reader io.Reader) error
}

// Coordinator drives one conversion request through download, transcode,
// verification and exposure, and owns the per-request temporary file
// identity. Every invocation is a fresh job with a fresh identifier;
// identical source URLs are never coalesced.
type Coordinator struct {
	Dir        string
	Fetcher    Fetcher
	Transcoder Transcoder
	Archiver   Archiver // optional, may be nil
}

// NewCoordinator returns a Coordinator writing artifacts under dir.
func NewCoordinator(dir string, f Fetcher, t Transcoder) *Coordinator {
	return &Coordinator{Dir: dir, Fetcher: f, Transcoder: t}
}

// Convert runs a full conversion job. On success exactly one output artifact
// remains on disk for later download; the input artifact is deleted on every
// path, success and failure alike. The returned error is the underlying
// fetch/transcode/verification error, suitable for errors.As inspection at
// the request boundary.
func (c *Coordinator) Convert(ctx context.Context, req models.ConversionRequest) (*models.ConversionResult, error) {
	id := uuid.NewString()
	inputPath := artifact.InputPath(c.Dir, id)
	outputPath := artifact.OutputPath(c.Dir, id, req.Format)

	logger.Infof("Job %s %s: %s -> %s (%s)", id, StateCreated, req.URL, req.Format, req.Bitrate)

	// The input artifact never outlives the job.
	defer artifact.Remove(inputPath)

	logger.Debugf("Job %s %s", id, StateDownloading)
	if err := c.Fetcher.Fetch(ctx, req.URL, inputPath); err != nil {
		c.fail(id, req, StateDownloading, err)
		return nil, err
	}

	logger.Debugf("Job %s %s", id, StateConverting)
	if err := c.Transcoder.Transcode(ctx, inputPath, outputPath, req.Format, req.Bitrate); err != nil {
		artifact.Remove(outputPath)
		c.fail(id, req, StateConverting, err)
		return nil, err
	}

	// The encoder's zero exit status is necessary but not sufficient: stat
	// the output before trusting it.
	info, err := os.Stat(outputPath)
	if err != nil || !info.Mode().IsRegular() {
		artifact.Remove(outputPath)
		c.fail(id, req, StateVerified, ErrOutputMissing)
		return nil, ErrOutputMissing
	}
	logger.Debugf("Job %s %s: %d bytes", id, StateVerified, info.Size())

	c.archive(ctx, outputPath)

	result := &models.ConversionResult{
		FileID:     id,
		Format:     req.Format,
		OutputPath: outputPath,
		Size:       info.Size(),
	}
	if err := success.StoreSuccess(success.SuccessRecord{
		FileID:      id,
		SourceURL:   req.URL,
		Format:      string(req.Format),
		Bitrate:     req.Bitrate,
		OutputBytes: info.Size(),
	}); err != nil {
		logger.Errorf("Failed to store success record for job %s: %v", id, err)
		// Don't fail the job for history storage errors
	}

	logger.Infof("Job %s %s", id, StateExposed)
	return result, nil
}

// fail records a terminal failure. History storage errors are logged and
// swallowed; the original error still propagates to the caller.
func (c *Coordinator) fail(id string, req models.ConversionRequest, stage State, err error) {
	logger.Errorf("Job %s %s in state %s: %v", id, StateFailed, stage, err)
	if storeErr := failures.StoreFailure(failures.FailureRecord{
		FileID:    id,
		SourceURL: req.URL,
		Format:    string(req.Format),
		Stage:     string(stage),
		Error:     err.Error(),
	}); storeErr != nil {
		logger.Errorf("Failed to store failure record for job %s: %v", id, storeErr)
	}
}

// archive exports the output artifact when an archiver is configured.
// Archive failures never fail the job.
func (c *Coordinator) archive(ctx context.Context, outputPath string) {
	if c.Archiver == nil {
		return
	}
	f, err := os.Open(outputPath)
	if err != nil {
		logger.Errorf("Failed to open %s for archiving: %v", outputPath, err)
		return
	}
	defer f.Close()
	if err := c.Archiver.Archive(ctx, filepath.Base(outputPath), f); err != nil {
		logger.Errorf("Failed to archive %s: %v", outputPath, err)
	}
}
