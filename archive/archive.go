// Package archive optionally exports converted audio artifacts to a
// secondary destination before they are exposed for download. Archiving is
// best-effort: a failed export never fails the conversion that produced the
// artifact.
package archive

import (
	"context"
	"fmt"
	"io"

	"waveforge/config"
)

// Writer dispatches artifact exports to the configured backend.
type Writer struct {
	Backend  string
	Settings map[string]string
}

// NewFromConfig builds a Writer from the environment. Returns nil when no
// archive backend is configured.
func NewFromConfig() *Writer {
	backend := config.GetArchiveBackend()
	if backend == "" {
		return nil
	}
	settings := config.GetArchiveSettings()
	settings["baseDir"] = config.GetArchiveLocalDir()
	return &Writer{Backend: backend, Settings: settings}
}

// Archive writes the artifact bytes under the given filename to the
// configured backend.
func (w *Writer) Archive(ctx context.Context, filename string, reader io.Reader) error {
	switch w.Backend {
	case "local":
		if err := writeLocal(ctx, w.Settings, filename, reader); err != nil {
			return fmt.Errorf("failed to archive to local dir: %w", err)
		}
	case "s3":
		if err := writeS3(ctx, w.Settings, filename, reader); err != nil {
			return fmt.Errorf("failed to archive to S3: %w", err)
		}
	case "gcs":
		if err := writeGCS(ctx, w.Settings, filename, reader); err != nil {
			return fmt.Errorf("failed to archive to GCS: %w", err)
		}
	case "sftp":
		if err := writeSFTP(ctx, w.Settings, filename, reader); err != nil {
			return fmt.Errorf("failed to archive to SFTP: %w", err)
		}
	default:
		return fmt.Errorf("unknown archive backend: %s", w.Backend)
	}
	return nil
}
