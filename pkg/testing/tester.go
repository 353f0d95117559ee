package testing

import (
	"testing"

	"github.com/go-drift/lifecycle/pkg/errors"
	"github.com/go-drift/lifecycle/pkg/messenger"
	"github.com/go-drift/lifecycle/pkg/platform"
)

// Tester isolates a test from the process-wide state the relay uses: the
// default messenger, the error handler and the platform dispatcher.
type Tester struct {
	root       any
	messenger  *messenger.Messenger
	messages   *MessageRecorder
	errors     *ErrorRecorder
	dispatches []func()
}

// NewTester installs a fresh default messenger, an error recorder and a
// queueing dispatcher. Call Cleanup() when done, or use NewTesterWithT()
// instead.
func NewTester() *Tester {
	m := messenger.New()
	messenger.SetDefault(m)
	t := &Tester{
		messenger: m,
		messages:  RecordMessages(m),
		errors:    &ErrorRecorder{},
	}
	errors.SetHandler(t.errors)
	platform.RegisterDispatch(t.Dispatch)
	return t
}

// NewTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT(t *testing.T) *Tester {
	tester := NewTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup restores the process-wide defaults.
func (t *Tester) Cleanup() {
	t.messages.Stop()
	messenger.SetDefault(nil)
	errors.SetHandler(nil)
	platform.RegisterDispatch(nil)
	t.root = nil
}

// Mount sets the root that finders and snapshots start from.
func (t *Tester) Mount(root any) {
	t.root = root
}

// Root returns the mounted root.
func (t *Tester) Root() any {
	return t.root
}

// Messenger returns the messenger installed as default.
func (t *Tester) Messenger() *messenger.Messenger {
	return t.messenger
}

// Messages returns the recorder subscribed to the installed messenger.
func (t *Tester) Messages() *MessageRecorder {
	return t.messages
}

// Errors returns the recorder installed as error handler.
func (t *Tester) Errors() *ErrorRecorder {
	return t.errors
}

// Dispatch queues a callback for the next Pump, mirroring a UI-thread
// dispatcher.
func (t *Tester) Dispatch(fn func()) {
	t.dispatches = append(t.dispatches, fn)
}

// Pending returns the number of queued callbacks.
func (t *Tester) Pending() int {
	return len(t.dispatches)
}

// Pump runs the queued callbacks, including any they queue in turn.
func (t *Tester) Pump() {
	for len(t.dispatches) > 0 {
		dispatches := t.dispatches
		t.dispatches = nil
		for _, fn := range dispatches {
			fn()
		}
	}
}

// Find evaluates a finder against the mounted tree.
func (t *Tester) Find(finder Finder) FinderResult {
	if t.root == nil {
		return FinderResult{finder: finder}
	}
	return FinderResult{
		nodes:  finder.Evaluate(t.root),
		finder: finder,
	}
}
