package lifecycle

import (
	"runtime"
	"testing"

	"github.com/go-drift/lifecycle/pkg/errors"
)

func TestEmitter_ZeroValueAndNil(t *testing.T) {
	var e Emitter
	e.Emit(AppStarting, nil)
	if e.ListenerCount(FamilyApp) != 0 {
		t.Error("zero emitter should have no listeners")
	}

	var nilEmitter *Emitter
	nilEmitter.Emit(PageAppearing, nil)
	nilEmitter.subscribe(NewAnchor(nil), FamilyPage)
	nilEmitter.unsubscribe(NewAnchor(nil), FamilyPage)
	nilEmitter.Listen(FamilyPage, func(Event, any) {})()
	if nilEmitter.ListenerCount(FamilyPage) != 0 {
		t.Error("nil emitter should report no listeners")
	}
}

func TestEmitter_DeliversInSubscriptionOrder(t *testing.T) {
	var log []string
	s := &testSource{name: "s"}
	a := newTestHost("a", &log)
	b := newTestHost("b", &log)
	c := newTestHost("c", &log)
	a.SetAppSource(s)
	b.SetAppSource(s)
	c.SetAppSource(s)

	s.events.Emit(AppStarting, s)

	want := []string{"a:app.starting", "b:app.starting", "c:app.starting"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}
}

func TestEmitter_OnlyMatchingFamily(t *testing.T) {
	var log []string
	s := &testSource{name: "s"}
	h := newTestHost("h", &log)
	h.SetAppSource(s)

	s.events.Emit(PageAppearing, s)
	if len(log) != 0 {
		t.Errorf("app-only host received page event: %v", log)
	}
}

func subscribeDroppedHost(s *testSource) {
	h := newTestHost("dropped", nil)
	h.SetAppSource(s)
}

func TestEmitter_DoesNotKeepHostAlive(t *testing.T) {
	s := &testSource{name: "s"}
	subscribeDroppedHost(s)

	runtime.GC()
	runtime.GC()

	if n := s.events.ListenerCount(FamilyApp); n != 0 {
		t.Errorf("ListenerCount = %d after host was dropped, want 0", n)
	}
	s.events.Emit(AppStarting, s)
	if len(s.events.subs) != 0 {
		t.Errorf("reclaimed subscription not pruned: %d left", len(s.events.subs))
	}
}

func TestEmitter_HookPanicIsIsolated(t *testing.T) {
	rec := capturePanics(t)

	var log []string
	s := &testSource{name: "s"}
	bad := newTestHost("bad", &log)
	bad.panicOn = AppResuming
	good := newTestHost("good", &log)
	bad.SetAppSource(s)
	good.SetAppSource(s)

	s.events.Emit(AppResuming, s)

	if good.count(AppResuming) != 1 {
		t.Errorf("healthy host did not receive the event: %v", log)
	}
	if len(rec.panics) != 1 {
		t.Fatalf("expected 1 reported panic, got %d", len(rec.panics))
	}
	if rec.panics[0].Kind != errors.KindHook {
		t.Errorf("Kind = %v, want %v", rec.panics[0].Kind, errors.KindHook)
	}
}

func TestEmitter_UnsubscribeDuringDispatchSkipsHost(t *testing.T) {
	var log []string
	s := &testSource{name: "s"}
	a := newTestHost("a", &log)
	b := newTestHost("b", &log)
	a.SetAppSource(s)
	b.SetAppSource(s)

	a.onEvent = func(Event) { b.SetAppSource(nil) }
	s.events.Emit(AppStarting, s)

	if b.count(AppStarting) != 0 {
		t.Errorf("host unsubscribed mid-dispatch still received the event: %v", log)
	}
}

func TestEmitter_SubscribeDuringDispatchWaitsForNextEvent(t *testing.T) {
	var log []string
	s := &testSource{name: "s"}
	a := newTestHost("a", &log)
	late := newTestHost("late", &log)
	a.SetAppSource(s)

	a.onEvent = func(Event) { late.SetAppSource(s) }
	s.events.Emit(AppStarting, s)
	if late.count(AppStarting) != 0 {
		t.Errorf("host subscribed mid-dispatch received the in-flight event: %v", log)
	}

	a.onEvent = nil
	s.events.Emit(AppStarting, s)
	if late.count(AppStarting) != 1 {
		t.Errorf("late host should receive the next event: %v", log)
	}
}

func TestEmitter_Listen(t *testing.T) {
	e := NewEmitter()
	var got []Event
	var origins []any
	remove := e.Listen(FamilyStage, func(ev Event, origin any) {
		got = append(got, ev)
		origins = append(origins, origin)
	})

	e.Emit(StageAppearing, "stage")
	e.Emit(PageAppearing, "page")
	remove()
	remove()
	e.Emit(StageDisappearing, "stage")

	if len(got) != 1 || got[0] != StageAppearing || origins[0] != "stage" {
		t.Errorf("got %v / %v, want [stage.appearing] / [stage]", got, origins)
	}
	if len(e.listeners) != 0 {
		t.Errorf("listener not removed: %d left", len(e.listeners))
	}
}

func TestEventNamesRoundTrip(t *testing.T) {
	for ev, name := range eventNames {
		got, err := ParseEvent(name)
		if err != nil || got != ev {
			t.Errorf("ParseEvent(%q) = %v, %v; want %v", name, got, err, ev)
		}
	}
	if _, err := ParseEvent("app.exploding"); err == nil {
		t.Error("expected error for unknown event")
	}
}

func TestEventFamily(t *testing.T) {
	tests := []struct {
		ev   Event
		want Family
	}{
		{AppStarting, FamilyApp},
		{AppGoingToSleep, FamilyApp},
		{PageDisappearing, FamilyPage},
		{StageAppearing, FamilyStage},
	}
	for _, tt := range tests {
		if got := tt.ev.Family(); got != tt.want {
			t.Errorf("%v.Family() = %v, want %v", tt.ev, got, tt.want)
		}
	}
	if !PageDisappearing.Disappearing() || AppGoingToSleep.Disappearing() {
		t.Error("Disappearing() misclassifies events")
	}
}
