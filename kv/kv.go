// ABOUTME: Local key-value storage backed by BadgerDB
// ABOUTME: The sole durable store; everything else is session memory
package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/dgraph-io/badger/v3"
)

// AppName is the application name used for the data directory.
const AppName = "userdesk"

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("key not found")

// Store wraps a BadgerDB instance with a byte-oriented get/set interface.
type Store struct {
	db *badger.DB
}

// DefaultDir returns the XDG-compliant data directory for the store.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Open opens (or creates) the store at dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	opts := badger.DefaultOptions(dir).
		WithLogger(nil) // Badger's own logging is too chatty for a console app

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	return &Store{db: db}, nil
}

// OpenInMemory opens an ephemeral store with no backing files.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory badger: %w", err)
	}

	return &Store{db: db}, nil
}

// Get retrieves the value stored under key. Returns ErrNotFound if absent.
func (s *Store) Get(key []byte) ([]byte, error) {
	var result []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		result, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return result, err
}

// Set stores value under key, replacing any existing value.
func (s *Store) Set(key, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *Store) Delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// Keys returns all keys in the store.
func (s *Store) Keys() ([][]byte, error) {
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
