package lifecycle

import (
	"fmt"
	"testing"

	"github.com/go-drift/lifecycle/pkg/errors"
)

func TestSetAppSource_ReplacesSubscription(t *testing.T) {
	var log []string
	s1 := &testSource{name: "s1"}
	s2 := &testSource{name: "s2"}
	h := newTestHost("h", &log)

	h.SetAppSource(s1)
	h.SetAppSource(s2)

	s1.events.Emit(AppStarting, s1)
	if len(log) != 0 {
		t.Fatalf("old source still delivers: %v", log)
	}
	if n := s1.events.ListenerCount(FamilyApp); n != 0 {
		t.Errorf("old source ListenerCount = %d, want 0", n)
	}

	s2.events.Emit(AppStarting, s2)
	if h.count(AppStarting) != 1 {
		t.Errorf("expected exactly one delivery from new source, got %v", log)
	}
	if h.AppSource() != s2 {
		t.Errorf("AppSource() = %v, want s2", h.AppSource())
	}
}

func TestSetSource_EveryFamilyUnsubscribesOldSource(t *testing.T) {
	var log []string
	h := newTestHost("h", &log)

	p1, p2 := &testSource{name: "p1"}, &testSource{name: "p2"}
	h.SetPageSource(p1)
	h.SetPageSource(p2)
	p1.events.Emit(PageAppearing, p1)
	p1.events.Emit(PageDisappearing, p1)

	st1, st2 := newTestStage("st1", nil), newTestStage("st2", nil)
	h.SetStageSource(st1)
	h.SetStageSource(st2)
	st1.RaiseStageAppearing()
	st1.RaiseStageDisappearing()

	if len(log) != 0 {
		t.Fatalf("old sources still deliver: %v", log)
	}
	if h.IsCleaningUp() {
		t.Error("disappearing from a replaced source must not clean up the host")
	}

	p2.events.Emit(PageAppearing, p2)
	st2.RaiseStageAppearing()
	if h.count(PageAppearing) != 1 || h.count(StageAppearing) != 1 {
		t.Errorf("unexpected deliveries: %v", log)
	}
}

func TestSetAppSource_NilHost(t *testing.T) {
	s1 := &testSource{name: "s1"}
	s2 := &testSource{name: "s2"}

	var slot AppSource = s1
	var host *testHost

	err := SetAppSource(host, &slot, s2)
	if !errors.Is(err, errors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if slot != s1 {
		t.Error("slot must be left unchanged on error")
	}

	err = SetAppSource(nil, &slot, s2)
	if !errors.Is(err, errors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for untyped nil host, got %v", err)
	}
	if slot != s1 {
		t.Error("slot must be left unchanged on error")
	}

	var le *errors.LifecycleError
	if !errors.As(err, &le) {
		t.Fatal("expected *errors.LifecycleError")
	}
	if le.Op != "lifecycle.SetAppSource" || le.Family != "app" {
		t.Errorf("unexpected error fields: %+v", le)
	}
}

func TestSetSource_NilSlot(t *testing.T) {
	h := newTestHost("h", nil)
	if err := SetPageSource(h, nil, &testSource{}); !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for nil slot, got %v", err)
	}
	if err := SetStageSource(nil, nil, nil); !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for nil host, got %v", err)
	}
}

func TestSetAppSource_NilSourceDetaches(t *testing.T) {
	var log []string
	s := &testSource{name: "s"}
	h := newTestHost("h", &log)

	h.SetAppSource(s)
	h.SetAppSource(nil)

	s.events.Emit(AppResuming, s)
	if len(log) != 0 {
		t.Errorf("detached host received %v", log)
	}
	if h.AppSource() != nil {
		t.Errorf("AppSource() = %v, want nil", h.AppSource())
	}
}

func TestSetAppSource_TypedNilSourceDetaches(t *testing.T) {
	s := &testSource{name: "s"}
	h := newTestHost("h", nil)
	h.SetAppSource(s)

	var typedNil *testSource
	h.SetAppSource(typedNil)

	if h.AppSource() != nil {
		t.Errorf("typed nil source should be stored as nil, got %#v", h.AppSource())
	}
	if s.events.ListenerCount(FamilyApp) != 0 {
		t.Error("expected host to be unsubscribed")
	}
}

func TestSetAppSource_SameSourceResubscribesLast(t *testing.T) {
	var log []string
	s := &testSource{name: "s"}
	h1 := newTestHost("h1", &log)
	h2 := newTestHost("h2", &log)

	h1.SetAppSource(s)
	h2.SetAppSource(s)
	h1.SetAppSource(s)

	if n := s.events.ListenerCount(FamilyApp); n != 2 {
		t.Errorf("ListenerCount = %d, want 2", n)
	}
	s.events.Emit(AppGoingToSleep, s)
	want := []string{"h2:app.going-to-sleep", "h1:app.going-to-sleep"}
	if fmt.Sprint(log) != fmt.Sprint(want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

// tagSource is a value source whose dynamic type is not comparable.
type tagSource struct {
	events *Emitter
	tags   []string
}

func (s tagSource) AppEvents() *Emitter { return s.events }

func TestSetAppSource_UncomparableValueSource(t *testing.T) {
	var log []string
	h := newTestHost("h", &log)
	e := NewEmitter()

	h.SetAppSource(tagSource{events: e, tags: []string{"a"}})
	h.SetAppSource(tagSource{events: e, tags: []string{"a"}})

	if n := e.ListenerCount(FamilyApp); n != 1 {
		t.Errorf("ListenerCount = %d, want 1", n)
	}
	e.Emit(AppStarting, nil)
	if h.count(AppStarting) != 1 {
		t.Errorf("expected a single delivery, got %v", log)
	}

	h.SetAppSource(nil)
	if n := e.ListenerCount(FamilyApp); n != 0 {
		t.Errorf("ListenerCount after detach = %d, want 0", n)
	}
}

func TestSetSource_DoesNotFire(t *testing.T) {
	var log []string
	s := &testSource{name: "s"}
	h := newTestHost("h", &log)

	h.SetAppSource(s)
	h.SetPageSource(s)
	h.SetPageSource(nil)

	if len(log) != 0 {
		t.Errorf("rebinding fired hooks: %v", log)
	}
}

func TestSetSource_SharedEmitterKeepsFamiliesApart(t *testing.T) {
	var log []string
	s := &testSource{name: "s"}
	h := newTestHost("h", &log)

	h.SetAppSource(s)
	h.SetPageSource(s)
	h.SetPageSource(nil)

	if n := s.events.ListenerCount(FamilyApp); n != 1 {
		t.Errorf("app ListenerCount = %d, want 1", n)
	}
	if n := s.events.ListenerCount(FamilyPage); n != 0 {
		t.Errorf("page ListenerCount = %d, want 0", n)
	}
}
