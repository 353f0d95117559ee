package lifecycle

import (
	"runtime"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/go-drift/lifecycle/pkg/errors"
	"github.com/go-drift/lifecycle/pkg/messenger"
)

// Guard is a one-shot cleanup flag. It starts live and moves to cleaning up
// exactly once, however many of its triggers fire (explicit disposal, a
// disappearing source, or reclamation of its owner).
//
// The zero value is ready to use. A Guard must not be copied after first use.
type Guard struct {
	state    *guardState
	cleanup  runtime.Cleanup
	watching bool
}

// guardState is allocated apart from the guard's owner so the reclamation
// cleanup can reference it without keeping the owner reachable.
type guardState struct {
	id         string
	cleaningUp atomic.Bool
}

// NewGuard returns a live guard with a fresh identity.
func NewGuard() *Guard {
	g := &Guard{}
	g.init()
	return g
}

func (g *Guard) init() {
	if g.state == nil {
		g.state = &guardState{id: uuid.NewString()}
	}
}

// ID returns the identity carried by the guard's disappearing message.
func (g *Guard) ID() string {
	g.init()
	return g.state.id
}

// IsCleaningUp reports whether the guard has left the live state.
func (g *Guard) IsCleaningUp() bool {
	return g.state != nil && g.state.cleaningUp.Load()
}

// CleanUp moves the guard to cleaning up. On the first call only, it runs
// teardown and then sends messenger.ObjectDisappearing with subject as the
// payload. A panic in teardown is reported and does not prevent the message.
// It returns true if this call performed the transition.
func (g *Guard) CleanUp(subject any, teardown func()) bool {
	g.init()
	if !g.state.cleaningUp.CompareAndSwap(false, true) {
		return false
	}
	if g.watching {
		g.cleanup.Stop()
		g.watching = false
	}
	if teardown != nil {
		runTeardown(teardown)
	}
	notifyCleanup(g.state.id, subject, false)
	messenger.Send(messenger.ObjectDisappearing{Payload: subject, ID: g.state.id})
	return true
}

func runTeardown(teardown func()) {
	defer errors.RecoverHook("lifecycle.Guard.teardown")
	teardown()
}

// Watch arms the reclamation trigger: if owner becomes unreachable while g is
// still live, g moves to cleaning up and an ObjectDisappearing message with
// Reclaimed set (and no payload) is sent. owner must be the object that holds
// g. Watching the same guard twice is a no-op.
func Watch[T any](g *Guard, owner *T) {
	if g == nil || owner == nil || g.watching {
		return
	}
	g.init()
	if g.state.cleaningUp.Load() {
		return
	}
	g.cleanup = runtime.AddCleanup(owner, reclaim, g.state)
	g.watching = true
}

func reclaim(s *guardState) {
	if !s.cleaningUp.CompareAndSwap(false, true) {
		return
	}
	notifyCleanup(s.id, nil, true)
	messenger.Send(messenger.ObjectDisappearing{ID: s.id, Reclaimed: true})
}
