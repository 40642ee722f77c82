package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

const uploadsKey = "uploads"

// UploadRecord is one completed upload. URL and Timestamp are immutable
// after creation.
type UploadRecord struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"` // milliseconds since epoch
}

// Time returns the record's creation time.
func (r UploadRecord) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Append creates a record for url, prepends it to the history and drops
// tail records beyond the configured history limit. The whole
// read-modify-write happens inside one write transaction, so concurrent
// appends cannot lose updates.
func (d *DB) Append(url string) (UploadRecord, error) {
	record := UploadRecord{
		ID:        uuid.NewString(),
		URL:       url,
		Timestamp: time.Now().UnixMilli(),
	}

	err := d.bolt.Update(func(tx *bbolt.Tx) error {
		limit := HistoryLimitDefault
		if data := tx.Bucket([]byte(bucketSettings)).Get([]byte(settingsKey)); data != nil {
			var settings Settings
			if err := json.Unmarshal(data, &settings); err != nil {
				return err
			}
			limit = ClampHistoryLimit(settings.HistoryLimit)
		}

		records, err := readHistory(tx)
		if err != nil {
			return err
		}

		records = append([]UploadRecord{record}, records...)
		if len(records) > limit {
			records = records[:limit]
		}

		return writeHistory(tx, records)
	})
	if err != nil {
		return UploadRecord{}, fmt.Errorf("failed to save upload to history: %w", err)
	}
	return record, nil
}

// List returns all records, most recently appended first.
func (d *DB) List() ([]UploadRecord, error) {
	var records []UploadRecord
	err := d.bolt.View(func(tx *bbolt.Tx) error {
		var err error
		records, err = readHistory(tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return records, nil
}

// DeleteByID removes the record with the given id, if present, and returns
// the updated list. Deleting an unknown id is a no-op, not an error.
func (d *DB) DeleteByID(id string) ([]UploadRecord, error) {
	var remaining []UploadRecord
	err := d.bolt.Update(func(tx *bbolt.Tx) error {
		records, err := readHistory(tx)
		if err != nil {
			return err
		}

		remaining = records[:0]
		for _, r := range records {
			if r.ID != id {
				remaining = append(remaining, r)
			}
		}
		return writeHistory(tx, remaining)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete history record: %w", err)
	}
	return remaining, nil
}

// Clear empties the history.
func (d *DB) Clear() error {
	err := d.bolt.Update(func(tx *bbolt.Tx) error {
		return writeHistory(tx, nil)
	})
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func readHistory(tx *bbolt.Tx) ([]UploadRecord, error) {
	data := tx.Bucket([]byte(bucketHistory)).Get([]byte(uploadsKey))
	if data == nil {
		return nil, nil
	}

	var records []UploadRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func writeHistory(tx *bbolt.Tx, records []UploadRecord) error {
	if records == nil {
		records = []UploadRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return tx.Bucket([]byte(bucketHistory)).Put([]byte(uploadsKey), data)
}
