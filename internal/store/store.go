// Package store persists cloudup's settings and upload history in a single
// bbolt database file.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	bucketSettings = "settings" // key: "settings" -> Settings JSON
	bucketHistory  = "history"  // key: "uploads" -> []UploadRecord JSON, newest first
)

// DB wraps the bbolt database holding all persistent state.
type DB struct {
	bolt *bbolt.DB
}

// Open opens (creating if needed) the database at path and ensures the
// buckets exist.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	instance, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := instance.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketSettings)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketHistory)); err != nil {
			return err
		}
		return nil
	}); err != nil {
		_ = instance.Close()
		return nil, err
	}

	return &DB{bolt: instance}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.bolt.Close()
}

// DefaultPath returns the database location, honoring CLOUDUP_DATA_DIR.
func DefaultPath() (string, error) {
	if dir := os.Getenv("CLOUDUP_DATA_DIR"); dir != "" {
		return filepath.Join(dir, "cloudup.db"), nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(configDir, "cloudup", "cloudup.db"), nil
}
