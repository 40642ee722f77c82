// Package view holds the list-view state for paginated history rendering.
package view

import (
	"sort"

	"github.com/Faqahat/cloudup/internal/store"
)

// PageSize is how many records a page shows, and the step for LoadMore.
const PageSize = 10

// State is the cursor of a history view. It is passed explicitly to render
// code; the record list itself always comes fresh from the store.
type State struct {
	DisplayCount int
}

// NewState returns a view showing the first page.
func NewState() State {
	return State{DisplayCount: PageSize}
}

// LoadMore grows the visible window by one page.
func (s State) LoadMore() State {
	s.DisplayCount += PageSize
	return s
}

// Reset collapses the view back to the first page. Called whenever the
// underlying list changes via delete or clear.
func (s State) Reset() State {
	s.DisplayCount = PageSize
	return s
}

// Page returns the visible slice of records and how many remain beyond it.
// Records are re-sorted by timestamp, newest first, independent of the
// store's insertion order.
func (s State) Page(records []store.UploadRecord) ([]store.UploadRecord, int) {
	sorted := make([]store.UploadRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp > sorted[j].Timestamp
	})

	if len(sorted) <= s.DisplayCount {
		return sorted, 0
	}
	return sorted[:s.DisplayCount], len(sorted) - s.DisplayCount
}
