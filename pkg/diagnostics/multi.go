package diagnostics

import "github.com/go-drift/lifecycle/pkg/lifecycle"

type multi []lifecycle.Observer

// Multi fans observations out to every non-nil observer, in order.
func Multi(observers ...lifecycle.Observer) lifecycle.Observer {
	var m multi
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

func (m multi) EventDelivered(ev lifecycle.Event, host, origin any) {
	for _, o := range m {
		o.EventDelivered(ev, host, origin)
	}
}

func (m multi) CleanupStarted(id string, subject any, reclaimed bool) {
	for _, o := range m {
		o.CleanupStarted(id, subject, reclaimed)
	}
}
