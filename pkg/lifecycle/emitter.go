package lifecycle

import (
	"weak"

	"github.com/go-drift/lifecycle/pkg/errors"
)

// Emitter is the per-source registry of subscribed hosts. The zero value is
// ready to use, and a nil *Emitter ignores every call.
//
// Hosts are referenced through weak pointers to their anchors. Function
// listeners added with Listen are held strongly until removed.
//
// Emit takes a snapshot of the subscriptions before dispatching: a host
// subscribed during dispatch does not receive the in-flight event, and a host
// unsubscribed during dispatch is skipped if it has not been reached yet.
type Emitter struct {
	subs      []*subscription
	listeners []*listener
}

type subscription struct {
	anchor  weak.Pointer[Anchor]
	family  Family
	removed bool
}

type listener struct {
	family  Family
	fn      func(ev Event, origin any)
	removed bool
}

// NewEmitter returns an empty emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Emit delivers ev to every host subscribed to its family, in subscription
// order, then to function listeners of that family.
func (e *Emitter) Emit(ev Event, origin any) {
	if e == nil {
		return
	}
	family := ev.Family()

	subs := append([]*subscription(nil), e.subs...)
	pruned := false
	for _, s := range subs {
		if s.removed || s.family != family {
			continue
		}
		anchor := s.anchor.Value()
		if anchor == nil {
			s.removed = true
			pruned = true
			continue
		}
		anchor.deliver(ev, origin)
	}
	if pruned {
		e.compact()
	}

	listeners := append([]*listener(nil), e.listeners...)
	for _, l := range listeners {
		if l.removed || l.family != family {
			continue
		}
		callListener(l, ev, origin)
	}
}

func callListener(l *listener, ev Event, origin any) {
	defer errors.RecoverHook("lifecycle.Emitter.listener:" + ev.String())
	l.fn(ev, origin)
}

// Listen registers fn for every event of family and returns a function that
// removes it.
func (e *Emitter) Listen(family Family, fn func(ev Event, origin any)) func() {
	if e == nil || fn == nil {
		return func() {}
	}
	l := &listener{family: family, fn: fn}
	e.listeners = append(e.listeners, l)
	return func() {
		if l.removed {
			return
		}
		l.removed = true
		kept := e.listeners[:0]
		for _, other := range e.listeners {
			if other != l {
				kept = append(kept, other)
			}
		}
		clear(e.listeners[len(kept):])
		e.listeners = kept
	}
}

// ListenerCount returns the number of live hosts subscribed to family.
// Function listeners are not counted.
func (e *Emitter) ListenerCount(family Family) int {
	if e == nil {
		return 0
	}
	n := 0
	for _, s := range e.subs {
		if !s.removed && s.family == family && s.anchor.Value() != nil {
			n++
		}
	}
	return n
}

// subscribe adds anchor for family. A second subscription of the same anchor
// to the same family is ignored.
func (e *Emitter) subscribe(anchor *Anchor, family Family) {
	if e == nil || anchor == nil {
		return
	}
	wp := weak.Make(anchor)
	for _, s := range e.subs {
		if !s.removed && s.family == family && s.anchor == wp {
			return
		}
	}
	e.subs = append(e.subs, &subscription{anchor: wp, family: family})
}

// unsubscribe removes anchor from family.
func (e *Emitter) unsubscribe(anchor *Anchor, family Family) {
	if e == nil || anchor == nil {
		return
	}
	wp := weak.Make(anchor)
	for _, s := range e.subs {
		if s.family == family && s.anchor == wp {
			s.removed = true
		}
	}
	e.compact()
}

// compact drops removed and reclaimed subscriptions. The backing array is
// rewritten in place; snapshots taken by Emit hold their own copy.
func (e *Emitter) compact() {
	kept := e.subs[:0]
	for _, s := range e.subs {
		if s.removed {
			continue
		}
		if s.anchor.Value() == nil {
			s.removed = true
			continue
		}
		kept = append(kept, s)
	}
	clear(e.subs[len(kept):])
	e.subs = kept
}
