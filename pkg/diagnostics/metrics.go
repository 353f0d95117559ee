package diagnostics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-drift/lifecycle/pkg/lifecycle"
)

// Metrics counts delivered events and cleanups.
type Metrics struct {
	events   *prometheus.CounterVec
	cleanups *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lifecycle",
				Name:      "events_total",
				Help:      "Lifecycle events delivered to hosts.",
			},
			[]string{"event"},
		),
		cleanups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lifecycle",
				Name:      "cleanups_total",
				Help:      "Hosts that started cleaning up.",
			},
			[]string{"reclaimed"},
		),
	}
	for _, c := range []prometheus.Collector{m.events, m.cleanups} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// EventDelivered implements lifecycle.Observer.
func (m *Metrics) EventDelivered(ev lifecycle.Event, host, origin any) {
	m.events.WithLabelValues(ev.String()).Inc()
}

// CleanupStarted implements lifecycle.Observer.
func (m *Metrics) CleanupStarted(id string, subject any, reclaimed bool) {
	m.cleanups.WithLabelValues(strconv.FormatBool(reclaimed)).Inc()
}
