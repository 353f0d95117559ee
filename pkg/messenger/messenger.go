// Package messenger provides the process-wide notification bus that lifecycle
// hosts broadcast on when they start cleaning up.
//
// Collaborators such as dependency containers or diagnostics subscribe once
// and receive every message:
//
//	unsub := messenger.OnObjectDisappearing(messenger.Default(), func(m messenger.ObjectDisappearing) {
//	    cache.Release(m.ID)
//	})
//	defer unsub()
package messenger

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/go-drift/lifecycle/pkg/errors"
)

// KindObjectDisappearing is the kind of ObjectDisappearing messages.
const KindObjectDisappearing = "object.disappearing"

// Message is anything sent on a Messenger.
type Message interface {
	Kind() string
}

// ObjectDisappearing announces that a lifecycle host has started cleaning up.
type ObjectDisappearing struct {
	// Payload is the disappearing object. It is nil when Reclaimed is set.
	Payload any
	// ID is the cleanup guard identity of the object.
	ID string
	// Reclaimed reports that the object was garbage collected while still live.
	Reclaimed bool
}

// Kind returns KindObjectDisappearing.
func (ObjectDisappearing) Kind() string { return KindObjectDisappearing }

func (m ObjectDisappearing) String() string {
	if m.Reclaimed {
		return fmt.Sprintf("object disappearing id=%s (reclaimed)", m.ID)
	}
	return fmt.Sprintf("object disappearing id=%s payload=%T", m.ID, m.Payload)
}

// Handler receives messages.
type Handler func(Message)

// Messenger fans messages out to subscribers. Safe for concurrent use; the
// reclamation path of a cleanup guard sends from the runtime's cleanup goroutine.
type Messenger struct {
	subs cmap.ConcurrentMap[string, Handler]
}

// New creates an empty Messenger.
func New() *Messenger {
	return &Messenger{subs: cmap.New[Handler]()}
}

// Subscribe registers h and returns a function that removes it.
// Delivery order between subscribers is unspecified.
func (m *Messenger) Subscribe(h Handler) func() {
	if h == nil {
		return func() {}
	}
	token := uuid.NewString()
	m.subs.Set(token, h)
	return func() {
		m.subs.Remove(token)
	}
}

// Send delivers msg to every subscriber. A panicking subscriber is reported
// and does not stop delivery to the others.
func (m *Messenger) Send(msg Message) {
	if msg == nil {
		return
	}
	for _, h := range m.subs.Items() {
		deliver(h, msg)
	}
}

func deliver(h Handler, msg Message) {
	defer errors.RecoverHook("messenger.Send:" + msg.Kind())
	h(msg)
}

// SubscriberCount returns the number of registered subscribers.
func (m *Messenger) SubscriberCount() int {
	return m.subs.Count()
}

// OnObjectDisappearing subscribes fn to ObjectDisappearing messages only.
func OnObjectDisappearing(m *Messenger, fn func(ObjectDisappearing)) func() {
	return m.Subscribe(func(msg Message) {
		if od, ok := msg.(ObjectDisappearing); ok {
			fn(od)
		}
	})
}

var (
	defaultMu        sync.RWMutex
	defaultMessenger = New()
)

// Default returns the process-wide messenger.
func Default() *Messenger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultMessenger
}

// SetDefault replaces the process-wide messenger.
// Pass nil to install a fresh, empty one.
func SetDefault(m *Messenger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if m == nil {
		m = New()
	}
	defaultMessenger = m
}

// Send delivers msg on the process-wide messenger.
func Send(msg Message) {
	Default().Send(msg)
}
