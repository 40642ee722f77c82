package tui

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faqahat/cloudup/internal/store"
	"github.com/Faqahat/cloudup/internal/transform"
	"github.com/Faqahat/cloudup/internal/view"
)

type fakeHistoryStore struct {
	records []store.UploadRecord
}

func (f *fakeHistoryStore) List() ([]store.UploadRecord, error) {
	return f.records, nil
}

func (f *fakeHistoryStore) DeleteByID(id string) ([]store.UploadRecord, error) {
	var remaining []store.UploadRecord
	for _, r := range f.records {
		if r.ID != id {
			remaining = append(remaining, r)
		}
	}
	f.records = remaining
	return remaining, nil
}

func fakeStoreWith(n int) *fakeHistoryStore {
	f := &fakeHistoryStore{}
	for i := 0; i < n; i++ {
		f.records = append(f.records, store.UploadRecord{
			ID:        fmt.Sprintf("id-%d", i),
			URL:       fmt.Sprintf("https://res.cloudinary.com/demo/image/upload/%d.jpg", i),
			Timestamp: int64(1000 + i),
		})
	}
	return f
}

func keyPress(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	panic("unsupported key: " + s)
}

func TestBrowseLoadMoreGrowsPage(t *testing.T) {
	model, err := NewHistory(fakeStoreWith(25), transform.Config{}, nil)
	require.NoError(t, err)

	assert.Contains(t, model.View(), "l load more (15 remaining)")

	updated, _ := model.Update(keyPress("l"))
	model = updated.(HistoryModel)
	assert.Contains(t, model.View(), "l load more (5 remaining)")
	assert.Equal(t, 2*view.PageSize, model.state.DisplayCount)
}

func TestBrowseDeleteResetsPagination(t *testing.T) {
	model, err := NewHistory(fakeStoreWith(25), transform.Config{}, nil)
	require.NoError(t, err)

	updated, _ := model.Update(keyPress("l"))
	model = updated.(HistoryModel)
	require.Equal(t, 2*view.PageSize, model.state.DisplayCount)

	updated, _ = model.Update(keyPress("d"))
	model = updated.(HistoryModel)
	assert.Equal(t, view.PageSize, model.state.DisplayCount)
	assert.Len(t, model.records, 24)
}

func TestBrowseDeleteDeepInSecondPageClampsCursor(t *testing.T) {
	model, err := NewHistory(fakeStoreWith(25), transform.Config{}, nil)
	require.NoError(t, err)

	updated, _ := model.Update(keyPress("l"))
	model = updated.(HistoryModel)
	for i := 0; i < 15; i++ {
		updated, _ = model.Update(keyPress("j"))
		model = updated.(HistoryModel)
	}
	require.Equal(t, 15, model.cursor)

	updated, _ = model.Update(keyPress("d"))
	model = updated.(HistoryModel)
	assert.Equal(t, view.PageSize, model.state.DisplayCount)
	assert.Equal(t, view.PageSize-1, model.cursor)
	assert.Contains(t, model.View(), ">")
}

func TestBrowseEnterCopiesTransformedURL(t *testing.T) {
	var copied string
	copyFn := func(s string) error {
		copied = s
		return nil
	}

	model, err := NewHistory(fakeStoreWith(3), transform.Config{Enabled: true, Width: 100}, copyFn)
	require.NoError(t, err)

	updated, _ := model.Update(keyPress("enter"))
	model = updated.(HistoryModel)

	// Newest record first: id-2 has the highest timestamp.
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/w_100/2.jpg", copied)
	assert.Contains(t, model.View(), "Copied")
}

func TestBrowseCopyFailureIsSilent(t *testing.T) {
	copyFn := func(string) error { return fmt.Errorf("no clipboard") }

	model, err := NewHistory(fakeStoreWith(1), transform.Config{}, copyFn)
	require.NoError(t, err)

	updated, _ := model.Update(keyPress("enter"))
	model = updated.(HistoryModel)
	assert.NoError(t, model.Err())
	assert.Contains(t, model.View(), "Copy failed")
}

func TestBrowseQuit(t *testing.T) {
	model, err := NewHistory(fakeStoreWith(1), transform.Config{}, nil)
	require.NoError(t, err)

	updated, cmd := model.Update(keyPress("q"))
	model = updated.(HistoryModel)
	assert.True(t, model.quitting)
	require.NotNil(t, cmd)
}

func TestBrowseEmptyState(t *testing.T) {
	model, err := NewHistory(&fakeHistoryStore{}, transform.Config{}, nil)
	require.NoError(t, err)
	assert.Contains(t, model.View(), "No uploads yet")
}
