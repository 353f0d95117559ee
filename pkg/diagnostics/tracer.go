package diagnostics

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/go-drift/lifecycle/pkg/lifecycle"
	"github.com/go-drift/lifecycle/pkg/messenger"
)

// Tracer logs relay activity. Deliveries are logged at debug level, cleanups
// and disappearing messages at info level.
type Tracer struct {
	log   zerolog.Logger
	unsub func()
}

// NewTracer returns a tracer writing to logger.
func NewTracer(logger zerolog.Logger) *Tracer {
	return &Tracer{log: logger.With().Str("component", "lifecycle").Logger()}
}

// EventDelivered implements lifecycle.Observer.
func (t *Tracer) EventDelivered(ev lifecycle.Event, host, origin any) {
	e := t.log.Debug().
		Str("event", ev.String()).
		Str("family", ev.Family().String()).
		Str("host", Describe(host))
	if origin != nil {
		e = e.Str("origin", Describe(origin))
	}
	e.Msg("event delivered")
}

// CleanupStarted implements lifecycle.Observer.
func (t *Tracer) CleanupStarted(id string, subject any, reclaimed bool) {
	e := t.log.Info().Str("id", id).Bool("reclaimed", reclaimed)
	if subject != nil {
		e = e.Str("subject", Describe(subject))
	}
	e.Msg("cleanup started")
}

// Attach logs every ObjectDisappearing message sent on m. Attaching again
// moves the tracer to the new messenger.
func (t *Tracer) Attach(m *messenger.Messenger) {
	t.Detach()
	t.unsub = messenger.OnObjectDisappearing(m, func(od messenger.ObjectDisappearing) {
		t.log.Info().
			Str("kind", od.Kind()).
			Str("id", od.ID).
			Bool("reclaimed", od.Reclaimed).
			Str("payload", Describe(od.Payload)).
			Msg("object disappearing")
	})
}

// Detach stops logging messenger traffic.
func (t *Tracer) Detach() {
	if t.unsub != nil {
		t.unsub()
		t.unsub = nil
	}
}

// Describe renders a node for logs: its String method if it has one,
// otherwise its type.
func Describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%T", v)
	}
}
