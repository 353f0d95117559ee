package lifecycle

import (
	"sync"

	"github.com/go-drift/lifecycle/pkg/errors"
)

// Anchor is the handle an Emitter keeps for a subscribed host. Emitters hold
// it through a weak pointer; the host holds it strongly, so the anchor lives
// exactly as long as its host.
type Anchor struct {
	self any
}

// NewAnchor creates an anchor delivering to self.
func NewAnchor(self any) *Anchor {
	return &Anchor{self: self}
}

// Bind retargets the anchor. Types that embed a node call Bind with the outer
// value so hooks they override are the ones invoked.
func (a *Anchor) Bind(self any) {
	a.self = self
}

// Self returns the host the anchor delivers to.
func (a *Anchor) Self() any {
	return a.self
}

func (a *Anchor) deliver(ev Event, origin any) {
	host := a.self
	if host == nil {
		return
	}
	invokeHook(host, ev, origin)
	notifyDelivered(ev, host, origin)

	if ev.Disappearing() {
		if c, ok := host.(Cleaner); ok {
			func() {
				defer errors.RecoverHook("lifecycle.CleanUp")
				c.CleanUp()
			}()
		}
	}
}

// invokeHook calls the host's hook for ev. A panicking hook is reported and
// does not stop delivery to other hosts.
func invokeHook(host any, ev Event, origin any) {
	defer errors.RecoverHook("lifecycle.deliver:" + ev.String())

	switch ev.Family() {
	case FamilyApp:
		h, ok := host.(AppHost)
		if !ok {
			return
		}
		switch ev {
		case AppStarting:
			h.OnAppStarting()
		case AppResuming:
			h.OnAppResuming()
		case AppGoingToSleep:
			h.OnAppGoingToSleep()
		}
	case FamilyPage:
		h, ok := host.(PageHost)
		if !ok {
			return
		}
		if ev == PageAppearing {
			h.OnPageAppearing(origin)
		} else {
			h.OnPageDisappearing(origin)
		}
	case FamilyStage:
		h, ok := host.(StageHost)
		if !ok {
			return
		}
		if ev == StageAppearing {
			h.OnStageAppearing(origin)
		} else {
			h.OnStageDisappearing(origin)
		}
	}
}

// Observer sees every delivered event and every cleanup transition.
// Implementations must be safe for concurrent use: reclamation cleanups are
// reported from the runtime's cleanup goroutine.
type Observer interface {
	EventDelivered(ev Event, host, origin any)
	CleanupStarted(id string, subject any, reclaimed bool)
}

var (
	observerMu sync.RWMutex
	observer   Observer
)

// SetObserver installs a process-wide observer. Pass nil to remove it.
func SetObserver(o Observer) {
	observerMu.Lock()
	defer observerMu.Unlock()
	observer = o
}

func getObserver() Observer {
	observerMu.RLock()
	defer observerMu.RUnlock()
	return observer
}

func notifyDelivered(ev Event, host, origin any) {
	if o := getObserver(); o != nil {
		o.EventDelivered(ev, host, origin)
	}
}

func notifyCleanup(id string, subject any, reclaimed bool) {
	if o := getObserver(); o != nil {
		o.CleanupStarted(id, subject, reclaimed)
	}
}
