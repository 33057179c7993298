package main

import (
	"context"
	"net/http"
	"time"

	"waveforge/archive"
	"waveforge/artifact"
	"waveforge/config"
	"waveforge/failures"
	"waveforge/fetcher"
	"waveforge/job"
	"waveforge/logger"
	"waveforge/routes"
	"waveforge/success"
	"waveforge/transcoder"
)

func main() {
	logger.Info("Starting waveforge server initialization")

	// Initialize failure history store
	logger.Debug("Initializing failures database")
	if err := failures.Init(config.GetFailuresDBPath()); err != nil {
		logger.Fatalf("Failed to initialize failure store: %v", err)
	}
	defer failures.Close()
	logger.Info("Failures database initialized successfully")

	// Initialize success history store
	logger.Debug("Initializing success database")
	if err := success.Init(config.GetSuccessDBPath()); err != nil {
		logger.Fatalf("Failed to initialize success store: %v", err)
	}
	defer success.Close()
	logger.Info("Success database initialized successfully")

	// Artifact storage; a restart simply orphans whatever is present until
	// the sweeper or a later download resolves it.
	store, err := artifact.NewStore(config.GetStorageDir())
	if err != nil {
		logger.Fatalf("Failed to prepare storage directory: %v", err)
	}
	logger.Infof("Artifact storage ready at %s", store.Dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start retention sweeper (runs once immediately, then on an interval)
	sweeper := &artifact.Sweeper{
		Dir:      store.Dir,
		MaxAge:   config.GetRetentionAge(),
		Interval: config.GetSweepInterval(),
	}
	go sweeper.Run(ctx)

	// Start cleanup routine for old history records (runs every 24 hours)
	logger.Info("Starting history cleanup routine (runs every 24 hours)")
	go historyCleanupRoutine(ctx)

	// Assemble the conversion pipeline
	coordinator := job.NewCoordinator(store.Dir, fetcher.New(), transcoder.New(config.GetEncoderPath()))
	if archiver := archive.NewFromConfig(); archiver != nil {
		logger.Infof("Archiving converted outputs to %s backend", archiver.Backend)
		coordinator.Archiver = archiver
	}

	limiter := routes.NewClientLimiter(config.GetRateLimit(), config.GetRateBurst())
	router := routes.NewRouter(&routes.Handlers{Coordinator: coordinator, Store: store}, limiter)
	logger.Info("HTTP routes registered successfully")

	addr := ":" + config.GetPort()
	logger.Infof("waveforge server starting on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Fatalf("Server failed to start: %v", err)
	}
}

// historyCleanupRoutine periodically prunes old success and failure records.
func historyCleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("History cleanup routine stopped due to context cancellation")
			return
		case <-ticker.C:
			maxAge := config.GetHistoryRetention()
			logger.Infof("Running scheduled cleanup of history records older than %v", maxAge)

			if err := success.CleanupOldRecords(maxAge); err != nil {
				logger.Errorf("Failed to cleanup old success records: %v", err)
			}
			if err := failures.CleanupOldRecords(maxAge); err != nil {
				logger.Errorf("Failed to cleanup old failure records: %v", err)
			}
		}
	}
}
