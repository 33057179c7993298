package failures

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"

	"waveforge/kvstore"
)

// FailureRecord captures one conversion that reached a terminal failure.
type FailureRecord struct {
	FileID    string    `json:"file_id"`
	SourceURL string    `json:"source_url"`
	Format    string    `json:"format"`
	Stage     string    `json:"stage"` // lifecycle stage the job failed in
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

var store *kvstore.Store

// Init initializes the failure history store.
func Init(dbPath string) error {
	var err error
	store, err = kvstore.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open failure store: %w", err)
	}
	return nil
}

// Close closes the failure history store.
func Close() error {
	if store != nil {
		return store.Close()
	}
	return nil
}

// StoreFailure records a failed conversion keyed by its job identifier.
func StoreFailure(record FailureRecord) error {
	if store == nil {
		return fmt.Errorf("failure store not initialized")
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal failure record: %w", err)
	}
	return store.Set(record.FileID, data)
}

// GetFailure retrieves a failure record by job identifier. Returns nil when
// no failure is recorded for the identifier.
func GetFailure(fileID string) (*FailureRecord, error) {
	if store == nil {
		return nil, fmt.Errorf("failure store not initialized")
	}

	data, err := store.Get(fileID)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get failure: %w", err)
	}

	var record FailureRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal failure record: %w", err)
	}
	return &record, nil
}

// ListFailures returns all failure records.
func ListFailures() ([]FailureRecord, error) {
	if store == nil {
		return nil, fmt.Errorf("failure store not initialized")
	}

	var records []FailureRecord
	iter, err := store.DB.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		var record FailureRecord
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			continue // Skip invalid records
		}
		records = append(records, record)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iteration error: %w", err)
	}
	return records, nil
}

// CleanupOldRecords deletes failure records older than maxAge.
func CleanupOldRecords(maxAge time.Duration) error {
	if store == nil {
		return fmt.Errorf("failure store not initialized")
	}

	cutoff := time.Now().Add(-maxAge)
	iter, err := store.DB.NewIter(&pebble.IterOptions{})
	if err != nil {
		return err
	}
	defer iter.Close()

	var keysToDelete []string
	for iter.First(); iter.Valid(); iter.Next() {
		var record FailureRecord
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			continue
		}
		if record.Timestamp.Before(cutoff) {
			keysToDelete = append(keysToDelete, string(iter.Key()))
		}
	}

	for _, key := range keysToDelete {
		if err := store.Delete(key); err != nil {
			return fmt.Errorf("failed to delete old failure record: %w", err)
		}
	}
	return nil
}
