package store

import (
	"path/filepath"
	"testing"

	"github.com/Faqahat/cloudup/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "cloudup.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})
	return db
}

func TestAppendReturnsRecord(t *testing.T) {
	db := setupTestDB(t)

	record, err := db.Append("https://res.cloudinary.com/demo/image/upload/a.jpg")
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/a.jpg", record.URL)
	assert.NotZero(t, record.Timestamp)
}

func TestAppendNewestFirst(t *testing.T) {
	db := setupTestDB(t)

	a, err := db.Append("https://res.cloudinary.com/demo/image/upload/a.jpg")
	require.NoError(t, err)
	b, err := db.Append("https://res.cloudinary.com/demo/image/upload/b.jpg")
	require.NoError(t, err)

	records, err := db.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, b.ID, records[0].ID)
	assert.Equal(t, a.ID, records[1].ID)
}

func TestAppendUniqueIDs(t *testing.T) {
	db := setupTestDB(t)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		record, err := db.Append("https://res.cloudinary.com/demo/image/upload/x.jpg")
		require.NoError(t, err)
		assert.False(t, seen[record.ID], "duplicate id %s", record.ID)
		seen[record.ID] = true
	}
}

func TestAppendEvictsBeyondLimit(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.SaveSettings(Settings{HistoryLimit: 10}))

	var urls []string
	for i := 0; i < 25; i++ {
		url := "https://res.cloudinary.com/demo/image/upload/pic-" + string(rune('a'+i)) + ".jpg"
		urls = append(urls, url)
		_, err := db.Append(url)
		require.NoError(t, err)
	}

	records, err := db.List()
	require.NoError(t, err)
	require.Len(t, records, 10)

	// The ten most recent uploads survive, newest first.
	for i, record := range records {
		assert.Equal(t, urls[len(urls)-1-i], record.URL)
	}
}

func TestListEmpty(t *testing.T) {
	db := setupTestDB(t)

	records, err := db.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDeleteByID(t *testing.T) {
	db := setupTestDB(t)

	a, err := db.Append("https://res.cloudinary.com/demo/image/upload/a.jpg")
	require.NoError(t, err)
	b, err := db.Append("https://res.cloudinary.com/demo/image/upload/b.jpg")
	require.NoError(t, err)

	remaining, err := db.DeleteByID(a.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, b.ID, remaining[0].ID)
}

func TestDeleteUnknownIDIsNoop(t *testing.T) {
	db := setupTestDB(t)

	a, err := db.Append("https://res.cloudinary.com/demo/image/upload/a.jpg")
	require.NoError(t, err)

	remaining, err := db.DeleteByID("does-not-exist")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, a.ID, remaining[0].ID)
}

func TestClear(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.Append("https://res.cloudinary.com/demo/image/upload/a.jpg")
	require.NoError(t, err)
	require.NoError(t, db.Clear())

	records, err := db.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSettingsRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	in := Settings{
		CloudName:    "demo",
		UploadPreset: "unsigned",
		Folder:       "screenshots",
		HistoryLimit: 250,
		Transformations: transform.Config{
			Enabled: true,
			Width:   1024,
			Format:  "auto",
		},
	}
	require.NoError(t, db.SaveSettings(in))

	out, err := db.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoadSettingsDefaults(t *testing.T) {
	db := setupTestDB(t)

	settings, err := db.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, HistoryLimitDefault, settings.HistoryLimit)
	assert.False(t, settings.Configured())
}

func TestSaveSettingsClampsHistoryLimit(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero maps to default", 0, 100},
		{"below minimum", 3, 10},
		{"above maximum", 10000, 500},
		{"within range", 42, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			require.NoError(t, db.SaveSettings(Settings{HistoryLimit: tt.in}))

			settings, err := db.LoadSettings()
			require.NoError(t, err)
			assert.Equal(t, tt.want, settings.HistoryLimit)
		})
	}
}

func TestSettingsEnvOverrides(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.SaveSettings(Settings{CloudName: "stored", UploadPreset: "stored-preset"}))

	t.Setenv("CLOUDUP_CLOUD_NAME", "from-env")
	t.Setenv("CLOUDUP_UPLOAD_PRESET", "env-preset")
	t.Setenv("CLOUDUP_FOLDER", "env-folder")

	settings, err := db.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "from-env", settings.CloudName)
	assert.Equal(t, "env-preset", settings.UploadPreset)
	assert.Equal(t, "env-folder", settings.Folder)
}
