package artifact

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"waveforge/logger"
)

// Sweeper periodically reclaims stale files from the storage directory. It
// shares no in-memory state with request handling; file mtimes are the only
// coordination. Configuration is passed in explicitly at startup.
type Sweeper struct {
	Dir      string
	MaxAge   time.Duration
	Interval time.Duration
}

// Run sweeps once immediately, then on every Interval tick until ctx is
// cancelled. Intended to be launched as its own goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	logger.Infof("Retention sweeper started (dir=%s, maxAge=%v, interval=%v)", s.Dir, s.MaxAge, s.Interval)

	s.sweepAndLog()

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Retention sweeper stopped")
			return
		case <-ticker.C:
			s.sweepAndLog()
		}
	}
}

func (s *Sweeper) sweepAndLog() {
	removed, err := Sweep(s.Dir, s.MaxAge)
	if err != nil {
		logger.Errorf("Artifact sweep failed: %v", err)
		return
	}
	if removed > 0 {
		logger.Infof("Artifact sweep removed %d stale files", removed)
	}
}

// Sweep deletes every regular file in dir whose last-modified timestamp is
// older than maxAge, regardless of role or whether it is orphaned. Returns
// the number of files removed.
func Sweep(dir string, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.Errorf("Failed to sweep %s: %v", path, err)
			continue
		}
		logger.Debugf("swept stale artifact %s (age %v)", path, time.Since(info.ModTime()))
		removed++
	}
	return removed, nil
}
