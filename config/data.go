package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// GetPort returns the HTTP listening port.
// Configurable via WAVEFORGE_PORT, defaults to 8080.
func GetPort() string {
	if port := os.Getenv("WAVEFORGE_PORT"); port != "" {
		return port
	}
	return "8080"
}

// GetStorageDir returns the directory holding temporary conversion artifacts
// (downloaded inputs and encoded outputs). The retention sweeper owns this
// namespace. Configurable via WAVEFORGE_STORAGE_DIR, defaults to "./uploads".
func GetStorageDir() string {
	if dir := os.Getenv("WAVEFORGE_STORAGE_DIR"); dir != "" {
		return dir
	}
	return "./uploads"
}

// GetDataDir returns the directory where waveforge keeps its databases.
// Configurable via WAVEFORGE_DATA_DIR, defaults to "./data".
func GetDataDir() string {
	if dir := os.Getenv("WAVEFORGE_DATA_DIR"); dir != "" {
		return dir
	}
	return "./data"
}

// GetFailuresDBPath returns the full path to the failure history database.
// Path: {DATA_DIR}/failures.db
func GetFailuresDBPath() string {
	return filepath.Join(GetDataDir(), "failures.db")
}

// GetSuccessDBPath returns the full path to the success history database.
// Path: {DATA_DIR}/success.db
func GetSuccessDBPath() string {
	return filepath.Join(GetDataDir(), "success.db")
}

// GetEncoderPath returns the ffmpeg binary invoked for transcoding.
// Configurable via WAVEFORGE_FFMPEG so deployments can pin a specific build.
func GetEncoderPath() string {
	if bin := os.Getenv("WAVEFORGE_FFMPEG"); bin != "" {
		return bin
	}
	return "ffmpeg"
}

// GetRetentionAge returns how long artifacts survive in the storage directory
// before the sweeper removes them. Configurable via WAVEFORGE_RETENTION
// (Go duration string), defaults to 1 hour.
func GetRetentionAge() time.Duration {
	return getDuration("WAVEFORGE_RETENTION", time.Hour)
}

// GetSweepInterval returns how often the retention sweeper runs.
// Configurable via WAVEFORGE_SWEEP_INTERVAL, defaults to 15 minutes.
func GetSweepInterval() time.Duration {
	return getDuration("WAVEFORGE_SWEEP_INTERVAL", 15*time.Minute)
}

// GetHistoryRetention returns how long success/failure records are kept.
// Configurable via WAVEFORGE_HISTORY_RETENTION, defaults to 30 days.
func GetHistoryRetention() time.Duration {
	return getDuration("WAVEFORGE_HISTORY_RETENTION", 30*24*time.Hour)
}

// GetRateLimit returns the sustained conversion requests per second allowed
// per client address. Configurable via WAVEFORGE_RATE_LIMIT, defaults to 1.
func GetRateLimit() float64 {
	if v := os.Getenv("WAVEFORGE_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return 1
}

// GetRateBurst returns the burst size of the per-client rate limiter.
// Configurable via WAVEFORGE_RATE_BURST, defaults to 5.
func GetRateBurst() int {
	if v := os.Getenv("WAVEFORGE_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 5
}

// GetArchiveBackend returns the configured archive backend type for converted
// outputs ("local", "s3", "gcs" or "sftp"). Empty string disables archiving.
func GetArchiveBackend() string {
	return os.Getenv("WAVEFORGE_ARCHIVE_BACKEND")
}

// GetArchiveLocalDir returns the base directory used by the "local" archive
// backend. Configurable via WAVEFORGE_ARCHIVE_DIR, defaults to "./archive".
func GetArchiveLocalDir() string {
	if dir := os.Getenv("WAVEFORGE_ARCHIVE_DIR"); dir != "" {
		return dir
	}
	return "./archive"
}

// GetArchiveSettings collects the backend-specific settings the archive
// writers read (bucket, region, credentials, host and so on). Each value maps
// from a WAVEFORGE_ARCHIVE_* environment variable.
func GetArchiveSettings() map[string]string {
	envToKey := map[string]string{
		"WAVEFORGE_ARCHIVE_ACCESS_KEY":       "accessKey",
		"WAVEFORGE_ARCHIVE_SECRET_KEY":       "secretKey",
		"WAVEFORGE_ARCHIVE_REGION":           "region",
		"WAVEFORGE_ARCHIVE_BUCKET":           "bucket",
		"WAVEFORGE_ARCHIVE_CREDENTIALS_JSON": "credentialsJSON",
		"WAVEFORGE_ARCHIVE_HOST":             "host",
		"WAVEFORGE_ARCHIVE_SSH_PORT":         "port",
		"WAVEFORGE_ARCHIVE_USER":             "user",
		"WAVEFORGE_ARCHIVE_PASSWORD":         "password",
		"WAVEFORGE_ARCHIVE_PRIVATE_KEY":      "privateKey",
		"WAVEFORGE_ARCHIVE_REMOTE_DIR":       "remoteDir",
	}
	settings := make(map[string]string)
	for env, key := range envToKey {
		if v := os.Getenv(env); v != "" {
			settings[key] = v
		}
	}
	return settings
}

func getDuration(env string, fallback time.Duration) time.Duration {
	if v := os.Getenv(env); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
