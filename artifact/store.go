package artifact

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	"waveforge/logger"
	"waveforge/models"
)

var (
	// ErrNotFound means no output artifact exists for the identifier.
	ErrNotFound = errors.New("artifact not found")
	// ErrBadID means the identifier is lexically malformed; no filesystem
	// lookup was attempted.
	ErrBadID = errors.New("malformed file identifier")
)

// Job identifiers are 36-character UUID strings.
var idPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateID checks the lexical shape of a job identifier.
func ValidateID(id string) bool {
	return len(id) == 36 && idPattern.MatchString(id)
}

// InputPath returns the on-disk location of a job's downloaded source.
// Layout contract: {dir}/{id}_input.webm
func InputPath(dir, id string) string {
	return filepath.Join(dir, id+"_input.webm")
}

// OutputPath returns the on-disk location of a job's converted output.
// Layout contract: {dir}/{id}_output.{format}
func OutputPath(dir, id string, format models.Format) string {
	return filepath.Join(dir, fmt.Sprintf("%s_output.%s", id, format))
}

// Store tracks conversion artifacts in a single storage directory. All
// coordination with the retention sweeper happens through the filesystem.
type Store struct {
	Dir string
}

// NewStore ensures the storage directory exists and returns a Store over it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
	}
	return &Store{Dir: dir}, nil
}

// Resolve finds the output artifact for a job identifier, probing the
// supported formats in a fixed order. Only one output should exist per
// identifier by construction; the ordering is a safety net.
func (s *Store) Resolve(id string) (string, models.Format, error) {
	if !ValidateID(id) {
		return "", "", ErrBadID
	}
	for _, format := range models.Formats {
		path := OutputPath(s.Dir, id, format)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, format, nil
		}
	}
	return "", "", ErrNotFound
}

// ServeAndDelete streams the artifact at path to the client and removes it
// afterwards. The file is deleted on every exit path: normal completion,
// client disconnect and mid-stream write errors alike. An error is returned
// only if it occurs before response headers are written; later failures just
// terminate the stream and are logged.
func (s *Store) ServeAndDelete(w http.ResponseWriter, path string, format models.Format) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("open artifact %s: %w", filepath.Base(path), err)
	}
	defer func() {
		f.Close()
		if err := os.Remove(path); err != nil {
			logger.Errorf("Failed to delete served artifact %s: %v", path, err)
		} else {
			logger.Debugf("deleted served artifact %s", path)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat artifact: %w", err)
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size()))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, f); err != nil {
		// Headers are already out; nothing more can be promised downstream.
		logger.Warnf("Stream of %s terminated early: %v", path, err)
	}
	return nil
}

// Remove deletes the file at path if it exists. Deletion is best-effort:
// failures are logged, never escalated, since a leaked file only costs disk
// until the sweeper reclaims it.
func Remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Errorf("Failed to delete artifact %s: %v", path, err)
	}
}
