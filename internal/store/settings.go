package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Faqahat/cloudup/internal/transform"
	"go.etcd.io/bbolt"
)

const settingsKey = "settings"

// History limit bounds. Writes outside this range are clamped, not rejected.
const (
	HistoryLimitMin     = 10
	HistoryLimitMax     = 500
	HistoryLimitDefault = 100
)

// Settings holds the user configuration for uploads and URL rewriting.
type Settings struct {
	CloudName       string           `json:"cloudName"`
	UploadPreset    string           `json:"uploadPreset"`
	Folder          string           `json:"folder,omitempty"`
	HistoryLimit    int              `json:"historyLimit"`
	Transformations transform.Config `json:"transformations"`
}

// Configured reports whether the settings carry enough to reach the upload
// API.
func (s Settings) Configured() bool {
	return s.CloudName != "" && s.UploadPreset != ""
}

// ClampHistoryLimit forces v into [HistoryLimitMin, HistoryLimitMax],
// mapping the zero value to the default.
func ClampHistoryLimit(v int) int {
	switch {
	case v == 0:
		return HistoryLimitDefault
	case v < HistoryLimitMin:
		return HistoryLimitMin
	case v > HistoryLimitMax:
		return HistoryLimitMax
	}
	return v
}

// LoadSettings reads the stored settings, applying defaults when nothing
// has been saved yet and environment overrides on top.
func (d *DB) LoadSettings() (Settings, error) {
	settings := Settings{HistoryLimit: HistoryLimitDefault}

	err := d.bolt.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketSettings)).Get([]byte(settingsKey))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &settings)
	})
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	settings.HistoryLimit = ClampHistoryLimit(settings.HistoryLimit)
	applyEnvOverrides(&settings)
	return settings, nil
}

// SaveSettings persists the settings, clamping the history limit first.
func (d *DB) SaveSettings(settings Settings) error {
	settings.HistoryLimit = ClampHistoryLimit(settings.HistoryLimit)

	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	return d.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketSettings)).Put([]byte(settingsKey), data)
	})
}

func applyEnvOverrides(settings *Settings) {
	if v := os.Getenv("CLOUDUP_CLOUD_NAME"); v != "" {
		settings.CloudName = v
	}
	if v := os.Getenv("CLOUDUP_UPLOAD_PRESET"); v != "" {
		settings.UploadPreset = v
	}
	if v := os.Getenv("CLOUDUP_FOLDER"); v != "" {
		settings.Folder = v
	}
}
