// Package overlay provides StagedPage, a page that layers stages above its
// content: slide-in panels, sheets and other overlays that come and go while
// the page stays up.
package overlay

import (
	"sync/atomic"

	"github.com/go-drift/lifecycle/pkg/views"
)

// nextEntryID is an atomic counter for unique entry IDs.
var nextEntryID uint64

// NewEntry creates an Entry for stage with a unique ID.
// Always use this constructor rather than literal struct creation.
func NewEntry(stage *views.Stage) *Entry {
	return &Entry{
		stage: stage,
		id:    atomic.AddUint64(&nextEntryID, 1),
	}
}

// Entry is one stage in a StagedPage's stack.
type Entry struct {
	// Opaque marks a stage that covers everything below it.
	Opaque bool

	stage *views.Stage
	page  *StagedPage // set on insert, cleared on remove
	id    uint64
}

// Stage returns the entry's stage.
func (e *Entry) Stage() *views.Stage { return e.stage }

// ID returns the entry's unique ID.
func (e *Entry) ID() uint64 { return e.id }

// Inserted reports whether the entry is in a page's stack.
func (e *Entry) Inserted() bool { return e.page != nil }

// Remove takes the entry off its page's stack without raising any event.
// Safe to call if not inserted or already removed (no-op).
func (e *Entry) Remove() {
	if e.page == nil {
		return
	}
	e.page.removeEntry(e)
}
