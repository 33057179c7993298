package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"waveforge/logger"
)

// writeLocal copies the artifact into the local archive directory, from
// where an operator (or another server) can serve it directly.
func writeLocal(ctx context.Context, settings map[string]string, filename string, reader io.Reader) error {
	baseDir := settings["baseDir"]
	if baseDir == "" {
		return fmt.Errorf("local archive dir not configured")
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return fmt.Errorf("failed to create archive dir: %w", err)
	}

	fullPath := filepath.Join(baseDir, filename)
	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", fullPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write to file %s: %w", fullPath, err)
	}

	logger.Infof("Archived '%s' to '%s'", filename, fullPath)
	return nil
}
