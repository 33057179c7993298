package kvstore

import (
	"github.com/cockroachdb/pebble"
)

// Store is a small wrapper around a Pebble DB instance shared by the
// conversion history stores.
type Store struct {
	DB   *pebble.DB
	Path string
}

// Open opens (or creates) a pebble DB at the given path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Store{DB: db, Path: path}, nil
}

// Set stores a value under the given key, synced to disk.
func (s *Store) Set(key string, value []byte) error {
	return s.DB.Set([]byte(key), value, pebble.Sync)
}

// Get returns a copy of the value for the given key, or pebble.ErrNotFound.
func (s *Store) Get(key string) ([]byte, error) {
	value, closer, err := s.DB.Get([]byte(key))
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Delete removes the key from the DB.
func (s *Store) Delete(key string) error {
	return s.DB.Delete([]byte(key), pebble.Sync)
}

// Close closes the underlying DB.
func (s *Store) Close() error {
	return s.DB.Close()
}
