package platform

import (
	"fmt"
	"sync"

	"github.com/go-drift/lifecycle/pkg/errors"
)

// Lifecycle is the process-wide platform lifecycle service. Embedders forward
// native state changes to it with UpdateState or HandleStateEvent.
var Lifecycle = NewLifecycleService()

// LifecycleService tracks the platform's app lifecycle state and notifies
// handlers when it changes.
type LifecycleService struct {
	mu       sync.RWMutex
	state    LifecycleState
	handlers []handlerEntry
	nextID   int
}

type handlerEntry struct {
	id int
	fn LifecycleHandler
}

// LifecycleState represents the current app lifecycle state.
type LifecycleState string

const (
	// LifecycleStateResumed indicates the app is visible and responding to user input.
	LifecycleStateResumed LifecycleState = "resumed"

	// LifecycleStateInactive indicates the app is transitioning (e.g., receiving a phone call).
	LifecycleStateInactive LifecycleState = "inactive"

	// LifecycleStatePaused indicates the app is not visible but still running.
	LifecycleStatePaused LifecycleState = "paused"

	// LifecycleStateDetached indicates the app is still hosted but detached from any view.
	LifecycleStateDetached LifecycleState = "detached"
)

// ParseLifecycleState validates a state name received from the platform.
func ParseLifecycleState(s string) (LifecycleState, error) {
	switch st := LifecycleState(s); st {
	case LifecycleStateResumed, LifecycleStateInactive, LifecycleStatePaused, LifecycleStateDetached:
		return st, nil
	}
	return "", fmt.Errorf("unknown lifecycle state %q", s)
}

// LifecycleHandler is called when lifecycle state changes.
type LifecycleHandler func(state LifecycleState)

// NewLifecycleService returns a service in the detached state. The first
// resumed update is what starts an app bound to it.
func NewLifecycleService() *LifecycleService {
	return &LifecycleService{state: LifecycleStateDetached}
}

// State returns the current lifecycle state.
func (l *LifecycleService) State() LifecycleState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// AddHandler registers a handler to be called on lifecycle changes.
// Returns a function that can be called to remove the handler.
func (l *LifecycleService) AddHandler(handler LifecycleHandler) func() {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.handlers = append(l.handlers, handlerEntry{id: id, fn: handler})
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, h := range l.handlers {
			if h.id == id {
				l.handlers = append(l.handlers[:i], l.handlers[i+1:]...)
				return
			}
		}
	}
}

// IsResumed returns true if the app is in the resumed state.
func (l *LifecycleService) IsResumed() bool {
	return l.State() == LifecycleStateResumed
}

// IsPaused returns true if the app is paused.
func (l *LifecycleService) IsPaused() bool {
	return l.State() == LifecycleStatePaused
}

// UpdateState records newState and notifies handlers if it differs from the
// current state. Handlers run through Dispatch when a dispatcher is
// registered, inline otherwise.
func (l *LifecycleService) UpdateState(newState LifecycleState) {
	l.mu.Lock()
	if l.state == newState {
		l.mu.Unlock()
		return
	}
	l.state = newState
	handlers := make([]LifecycleHandler, len(l.handlers))
	for i, h := range l.handlers {
		handlers[i] = h.fn
	}
	l.mu.Unlock()

	notify := func() {
		for _, h := range handlers {
			callHandler(h, newState)
		}
	}
	if !Dispatch(notify) {
		notify()
	}
}

func callHandler(h LifecycleHandler, state LifecycleState) {
	defer errors.Recover("platform.lifecycle.handler")
	h(state)
}

// HandleStateEvent decodes a native state event of the form
// {"state": "<name>"} and applies it. Malformed events are reported and
// ignored.
func (l *LifecycleService) HandleStateEvent(data any) {
	m, ok := data.(map[string]any)
	if !ok {
		reportParse(fmt.Errorf("expected map, got %T", data))
		return
	}
	raw, ok := m["state"].(string)
	if !ok {
		reportParse(fmt.Errorf("missing state field in %v", m))
		return
	}
	state, err := ParseLifecycleState(raw)
	if err != nil {
		reportParse(err)
		return
	}
	l.UpdateState(state)
}

func reportParse(err error) {
	errors.Report(&errors.LifecycleError{
		Op:     "platform.lifecycle.parseEvent",
		Kind:   errors.KindInvalidArgument,
		Family: "app",
		Err:    err,
	})
}
