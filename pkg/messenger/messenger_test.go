package messenger

import (
	"strings"
	"testing"

	"github.com/go-drift/lifecycle/pkg/errors"
)

func TestSubscribeAndSend(t *testing.T) {
	m := New()
	var got []Message
	unsub := m.Subscribe(func(msg Message) { got = append(got, msg) })

	m.Send(ObjectDisappearing{Payload: "view", ID: "a"})

	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
	if got[0].Kind() != KindObjectDisappearing {
		t.Errorf("Kind() = %q, want %q", got[0].Kind(), KindObjectDisappearing)
	}

	unsub()
	m.Send(ObjectDisappearing{ID: "b"})
	if len(got) != 1 {
		t.Errorf("expected no delivery after unsubscribe, got %d messages", len(got))
	}
	if m.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", m.SubscriberCount())
	}
}

func TestSubscribeNilHandler(t *testing.T) {
	m := New()
	unsub := m.Subscribe(nil)
	unsub()
	if m.SubscriberCount() != 0 {
		t.Errorf("nil handler should not be registered")
	}
}

type otherMessage struct{}

func (otherMessage) Kind() string { return "other" }

func TestOnObjectDisappearingFilters(t *testing.T) {
	m := New()
	var ids []string
	unsub := OnObjectDisappearing(m, func(od ObjectDisappearing) { ids = append(ids, od.ID) })
	defer unsub()

	m.Send(otherMessage{})
	m.Send(ObjectDisappearing{ID: "x", Reclaimed: true})

	if len(ids) != 1 || ids[0] != "x" {
		t.Errorf("ids = %v, want [x]", ids)
	}
}

type captureHandler struct {
	panics []*errors.PanicError
}

func (h *captureHandler) HandleError(*errors.LifecycleError) {}
func (h *captureHandler) HandlePanic(err *errors.PanicError) {
	h.panics = append(h.panics, err)
}

func TestPanickingSubscriberIsIsolated(t *testing.T) {
	handler := &captureHandler{}
	errors.SetHandler(handler)
	defer errors.SetHandler(nil)

	m := New()
	m.Subscribe(func(Message) { panic("subscriber failed") })
	delivered := 0
	m.Subscribe(func(Message) { delivered++ })

	m.Send(ObjectDisappearing{ID: "z"})

	if delivered != 1 {
		t.Errorf("healthy subscriber received %d messages, want 1", delivered)
	}
	if len(handler.panics) != 1 {
		t.Fatalf("expected 1 reported panic, got %d", len(handler.panics))
	}
	if handler.panics[0].Kind != errors.KindHook {
		t.Errorf("Kind = %v, want %v", handler.panics[0].Kind, errors.KindHook)
	}
}

func TestDefaultMessenger(t *testing.T) {
	custom := New()
	SetDefault(custom)
	defer SetDefault(nil)

	if Default() != custom {
		t.Fatal("Default() should return the installed messenger")
	}

	count := 0
	custom.Subscribe(func(Message) { count++ })
	Send(ObjectDisappearing{ID: "d"})
	if count != 1 {
		t.Errorf("package Send delivered %d messages, want 1", count)
	}

	SetDefault(nil)
	if Default() == custom || Default() == nil {
		t.Error("SetDefault(nil) should install a fresh messenger")
	}
}

func TestObjectDisappearingString(t *testing.T) {
	s := ObjectDisappearing{ID: "r", Reclaimed: true}.String()
	if !strings.Contains(s, "reclaimed") {
		t.Errorf("String() = %q, want reclaimed marker", s)
	}
}
