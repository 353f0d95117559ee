package overlay

import (
	"fmt"
	"sync/atomic"

	"github.com/go-drift/lifecycle/pkg/lifecycle"
	"github.com/go-drift/lifecycle/pkg/views"
)

// StagedPage is a Page that keeps a stack of stages above its content. Each
// stage resolves its App and Page sources from the page, so the whole stack
// goes away when the page disappears.
//
// One stage at a time is current. Focusing a stage raises StageAppearing on
// it; dismissing a stage raises StageDisappearing, which cleans up everything
// under it. Stack operations requested from a hook while the page is raising
// a stage event are queued and run once that event has been delivered.
type StagedPage struct {
	*views.Page

	// AllowInputWhileBusy lets input reach the page while it is busy.
	AllowInputWhileBusy bool

	entries    []*Entry
	current    *Entry
	busy       bool
	raising    bool
	pendingOps []func()
}

// StageOptions controls AddStage.
type StageOptions struct {
	// DoNotFocus adds the stage without making it current.
	DoNotFocus bool
	// KeepOthers keeps the stages already in the stack instead of
	// dismissing them.
	KeepOthers bool
}

// NewStagedPage creates a page with an empty stage stack.
func NewStagedPage(name string) *StagedPage {
	p := &StagedPage{Page: views.NewPage(name)}
	p.Page.Bind(p)
	return p
}

func (p *StagedPage) String() string { return fmt.Sprintf("stagedpage(%s)", p.Name()) }

// LifecycleChildren implements lifecycle.Container. Stages follow the page's
// content and binding context, bottom first.
func (p *StagedPage) LifecycleChildren() []any {
	children := p.Page.LifecycleChildren()
	for _, e := range p.entries {
		children = append(children, e.stage)
	}
	return children
}

// AddStage pushes stage on top of the stack. Unless opts.DoNotFocus is set
// the stage becomes current, and unless opts.KeepOthers is set every other
// stage is then dismissed.
func (p *StagedPage) AddStage(stage *views.Stage, opts StageOptions) *Entry {
	entry := NewEntry(stage)
	p.Insert(entry, nil, nil)
	if !opts.DoNotFocus {
		p.SetCurrentStage(stage)
	}
	if !opts.KeepOthers {
		for _, e := range p.Entries() {
			if e != entry {
				p.dismiss(e)
			}
		}
	}
	return entry
}

// RemoveStage dismisses stage: it leaves the stack and raises
// StageDisappearing. It reports whether stage was in the stack.
func (p *StagedPage) RemoveStage(stage *views.Stage) bool {
	e := p.entryFor(stage)
	if e == nil {
		return false
	}
	p.dismiss(e)
	return true
}

func (p *StagedPage) dismiss(e *Entry) {
	e.Remove()
	p.raise(e.stage.RaiseStageDisappearing)
}

// CurrentStage returns the current stage, or nil.
func (p *StagedPage) CurrentStage() *views.Stage {
	if p.current == nil {
		return nil
	}
	return p.current.stage
}

// SetCurrentStage makes stage current and raises StageAppearing on it.
// Stages that are not in the stack are ignored; it reports whether stage is
// current afterwards. Focusing the current stage again raises nothing.
func (p *StagedPage) SetCurrentStage(stage *views.Stage) bool {
	e := p.entryFor(stage)
	if e == nil {
		return false
	}
	if p.current == e {
		return true
	}
	p.current = e
	p.raise(stage.RaiseStageAppearing)
	return true
}

// Entries returns a copy of the stack, bottom first.
func (p *StagedPage) Entries() []*Entry {
	return append([]*Entry(nil), p.entries...)
}

// CoversContent reports whether an opaque stage hides the page content.
func (p *StagedPage) CoversContent() bool {
	for _, e := range p.entries {
		if e.Opaque {
			return true
		}
	}
	return false
}

// SetBusy shows or hides the page's busy state.
func (p *StagedPage) SetBusy(busy bool) { p.busy = busy }

// IsBusy reports whether the page is busy.
func (p *StagedPage) IsBusy() bool { return p.busy }

// InputBlocked reports whether the busy state is swallowing input.
func (p *StagedPage) InputBlocked() bool { return p.busy && !p.AllowInputWhileBusy }

// Insert adds entry to the stack and resolves its stage's sources from the
// page. No event is raised.
// Positioning: exactly one of below/above may be non-nil.
//   - below non-nil: inserts just below that entry
//   - above non-nil: inserts just above that entry
//   - both nil: inserts at top
//
// Panics if both below AND above are non-nil (ambiguous).
// Panics if entry is already inserted to any page.
func (p *StagedPage) Insert(entry *Entry, below, above *Entry) {
	if below != nil && above != nil {
		panic("overlay: both below and above specified")
	}
	if entry.page != nil {
		panic("overlay: entry already inserted")
	}

	// Mark entry as belonging to this page immediately
	// (allows Remove while the insertion is queued)
	entry.page = p
	if entry.id == 0 {
		entry.id = atomic.AddUint64(&nextEntryID, 1)
	}

	p.run(func() {
		if entry.page != p {
			return // Entry was removed before insert completed
		}
		p.insertIntoEntries(entry, below, above)
		lifecycle.Propagate(entry.stage, p)
	})
}

// Rearrange replaces the stack with newEntries. Entries not in newEntries are
// removed without raising any event.
func (p *StagedPage) Rearrange(newEntries []*Entry) {
	p.run(func() {
		newSet := make(map[*Entry]bool, len(newEntries))
		for _, entry := range newEntries {
			newSet[entry] = true
		}

		for _, entry := range p.entries {
			if !newSet[entry] {
				entry.page = nil
				if p.current == entry {
					p.current = nil
				}
			}
		}

		p.entries = append([]*Entry(nil), newEntries...)
		for _, entry := range newEntries {
			if entry.id == 0 {
				entry.id = atomic.AddUint64(&nextEntryID, 1)
			}
			if entry.page != p {
				entry.page = p
				lifecycle.Propagate(entry.stage, p)
			}
		}
	})
}

func (p *StagedPage) entryFor(stage *views.Stage) *Entry {
	for _, e := range p.entries {
		if e.stage == stage {
			return e
		}
	}
	return nil
}

func (p *StagedPage) insertIntoEntries(entry *Entry, below, above *Entry) {
	if below != nil {
		for i, e := range p.entries {
			if e == below {
				p.entries = append(p.entries[:i], append([]*Entry{entry}, p.entries[i:]...)...)
				return
			}
		}
		// below not found, insert at bottom
		p.entries = append([]*Entry{entry}, p.entries...)
	} else if above != nil {
		for i, e := range p.entries {
			if e == above {
				p.entries = append(p.entries[:i+1], append([]*Entry{entry}, p.entries[i+1:]...)...)
				return
			}
		}
		// above not found, insert at top
		p.entries = append(p.entries, entry)
	} else {
		p.entries = append(p.entries, entry)
	}
}

func (p *StagedPage) removeEntry(entry *Entry) {
	p.run(func() {
		// Skip if entry was already removed or re-inserted elsewhere
		if entry.page != p {
			return
		}
		entry.page = nil
		if p.current == entry {
			p.current = nil
		}
		for i, e := range p.entries {
			if e == entry {
				p.entries = append(p.entries[:i], p.entries[i+1:]...)
				break
			}
		}
	})
}

// run applies op now, or after the stage event being raised.
func (p *StagedPage) run(op func()) {
	if p.raising {
		p.pendingOps = append(p.pendingOps, op)
		return
	}
	op()
}

func (p *StagedPage) raise(fn func()) {
	if p.raising {
		fn()
		return
	}
	p.raising = true
	fn()
	p.raising = false

	for len(p.pendingOps) > 0 {
		ops := p.pendingOps
		p.pendingOps = nil
		for _, op := range ops {
			op()
		}
	}
}
