package testing

import (
	"runtime"
	"sync"
	"time"

	"github.com/go-drift/lifecycle/pkg/errors"
	"github.com/go-drift/lifecycle/pkg/messenger"
)

// MessageRecorder collects ObjectDisappearing messages from a messenger.
// Safe for concurrent use: reclamation messages arrive from the runtime's
// cleanup goroutine.
type MessageRecorder struct {
	mu     sync.Mutex
	msgs   []messenger.ObjectDisappearing
	notify chan struct{}
	unsub  func()
}

// RecordMessages subscribes a new recorder to m.
func RecordMessages(m *messenger.Messenger) *MessageRecorder {
	r := &MessageRecorder{notify: make(chan struct{}, 1)}
	r.unsub = messenger.OnObjectDisappearing(m, r.add)
	return r
}

func (r *MessageRecorder) add(m messenger.ObjectDisappearing) {
	r.mu.Lock()
	r.msgs = append(r.msgs, m)
	r.mu.Unlock()
	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Stop unsubscribes the recorder.
func (r *MessageRecorder) Stop() {
	if r.unsub != nil {
		r.unsub()
		r.unsub = nil
	}
}

// All returns a copy of every message received.
func (r *MessageRecorder) All() []messenger.ObjectDisappearing {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]messenger.ObjectDisappearing(nil), r.msgs...)
}

// CountFor returns how many messages carried payload. payload must be
// comparable, which every node pointer is.
func (r *MessageRecorder) CountFor(payload any) int {
	n := 0
	for _, m := range r.All() {
		if m.Payload == payload {
			n++
		}
	}
	return n
}

// CountID returns how many messages carried id.
func (r *MessageRecorder) CountID(id string) int {
	n := 0
	for _, m := range r.All() {
		if m.ID == id {
			n++
		}
	}
	return n
}

// WaitForID runs the garbage collector until a message with id arrives or
// timeout elapses.
func (r *MessageRecorder) WaitForID(id string, timeout time.Duration) (messenger.ObjectDisappearing, bool) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		for _, m := range r.All() {
			if m.ID == id {
				return m, true
			}
		}
		runtime.GC()
		select {
		case <-r.notify:
		case <-time.After(10 * time.Millisecond):
		}
	}
	return messenger.ObjectDisappearing{}, false
}

// ErrorRecorder is an errors.ErrorHandler that keeps what it receives.
type ErrorRecorder struct {
	mu     sync.Mutex
	errs   []*errors.LifecycleError
	panics []*errors.PanicError
}

func (r *ErrorRecorder) HandleError(err *errors.LifecycleError) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

func (r *ErrorRecorder) HandlePanic(err *errors.PanicError) {
	r.mu.Lock()
	r.panics = append(r.panics, err)
	r.mu.Unlock()
}

// Errors returns the reported errors.
func (r *ErrorRecorder) Errors() []*errors.LifecycleError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*errors.LifecycleError(nil), r.errs...)
}

// Panics returns the reported panics.
func (r *ErrorRecorder) Panics() []*errors.PanicError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*errors.PanicError(nil), r.panics...)
}
