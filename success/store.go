package success

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"

	"waveforge/kvstore"
)

// SuccessRecord captures one conversion that completed and was exposed for
// download.
type SuccessRecord struct {
	FileID      string    `json:"file_id"`
	SourceURL   string    `json:"source_url"`
	Format      string    `json:"format"`
	Bitrate     string    `json:"bitrate"`
	OutputBytes int64     `json:"output_bytes"`
	Timestamp   time.Time `json:"timestamp"`
}

var store *kvstore.Store

// Init initializes the success history store.
func Init(dbPath string) error {
	var err error
	store, err = kvstore.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open success store: %w", err)
	}
	return nil
}

// Close closes the success history store.
func Close() error {
	if store != nil {
		return store.Close()
	}
	return nil
}

// StoreSuccess records a completed conversion keyed by its job identifier.
func StoreSuccess(record SuccessRecord) error {
	if store == nil {
		return fmt.Errorf("success store not initialized")
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal success record: %w", err)
	}
	return store.Set(record.FileID, data)
}

// GetSuccess retrieves a success record by job identifier. Returns nil when
// no record exists.
func GetSuccess(fileID string) (*SuccessRecord, error) {
	if store == nil {
		return nil, fmt.Errorf("success store not initialized")
	}

	data, err := store.Get(fileID)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get success record: %w", err)
	}

	var record SuccessRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal success record: %w", err)
	}
	return &record, nil
}

// ListSuccessRecords returns all success records.
func ListSuccessRecords() ([]SuccessRecord, error) {
	if store == nil {
		return nil, fmt.Errorf("success store not initialized")
	}

	var records []SuccessRecord
	iter, err := store.DB.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		var record SuccessRecord
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

// CleanupOldRecords deletes success records older than maxAge.
func CleanupOldRecords(maxAge time.Duration) error {
	if store == nil {
		return fmt.Errorf("success store not initialized")
	}

	cutoff := time.Now().Add(-maxAge)
	iter, err := store.DB.NewIter(&pebble.IterOptions{})
	if err != nil {
		return err
	}
	defer iter.Close()

	var keysToDelete []string
	for iter.First(); iter.Valid(); iter.Next() {
		var record SuccessRecord
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			continue
		}
		if record.Timestamp.Before(cutoff) {
			keysToDelete = append(keysToDelete, string(iter.Key()))
		}
	}

	for _, key := range keysToDelete {
		if err := store.Delete(key); err != nil {
			return fmt.Errorf("failed to delete old success record: %w", err)
		}
	}
	return nil
}
