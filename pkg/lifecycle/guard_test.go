package lifecycle

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/go-drift/lifecycle/pkg/errors"
	"github.com/go-drift/lifecycle/pkg/messenger"
)

func TestGuard_CleanUpIsOneShot(t *testing.T) {
	msgs := captureMessages(t)
	var g Guard
	subject := &struct{ n int }{}
	calls := 0

	if g.IsCleaningUp() {
		t.Fatal("new guard must start live")
	}
	if !g.CleanUp(subject, func() { calls++ }) {
		t.Error("first CleanUp should perform the transition")
	}
	if g.CleanUp(subject, func() { calls++ }) {
		t.Error("second CleanUp must be a no-op")
	}

	if !g.IsCleaningUp() {
		t.Error("guard should be cleaning up")
	}
	if calls != 1 {
		t.Errorf("teardown ran %d times, want 1", calls)
	}
	if len(*msgs) != 1 {
		t.Fatalf("broadcast %d messages, want 1", len(*msgs))
	}
	got := (*msgs)[0]
	if got.Payload != subject || got.ID != g.ID() || got.Reclaimed {
		t.Errorf("unexpected message %+v", got)
	}
}

func TestGuard_TeardownPanicStillBroadcasts(t *testing.T) {
	rec := capturePanics(t)
	msgs := captureMessages(t)
	g := NewGuard()

	g.CleanUp("subject", func() { panic("teardown failed") })

	if len(*msgs) != 1 {
		t.Fatalf("broadcast %d messages, want 1", len(*msgs))
	}
	if len(rec.panics) != 1 || rec.panics[0].Kind != errors.KindHook {
		t.Errorf("expected one KindHook panic report, got %+v", rec.panics)
	}
}

func TestGuard_IDIsStable(t *testing.T) {
	var g Guard
	id := g.ID()
	if id == "" || g.ID() != id {
		t.Errorf("ID() not stable: %q then %q", id, g.ID())
	}
	if NewGuard().ID() == id {
		t.Error("guards must not share identities")
	}
}

func TestDisappearingEventsCleanUpOnce(t *testing.T) {
	msgs := captureMessages(t)
	var log []string
	page := newTestPage("page", &log)
	stage := newTestStage("stage", &log)
	v := newTestHost("v", &log)
	v.SetPageSource(page)
	v.SetStageSource(stage)

	page.disappear()
	stage.RaiseStageDisappearing()
	page.disappear()

	if !v.IsCleaningUp() {
		t.Fatal("disappearing should clean up the host")
	}
	if v.teardown != 1 {
		t.Errorf("teardown ran %d times, want 1", v.teardown)
	}
	n := 0
	for _, m := range *msgs {
		if m.Payload == v {
			n++
		}
	}
	if n != 1 {
		t.Errorf("object disappearing broadcast %d times for v, want 1", n)
	}
	if v.count(PageDisappearing) != 2 {
		t.Errorf("hook should still see every disappearing event, got %v", log)
	}
}

func TestWatch_ReclaimedHostBroadcasts(t *testing.T) {
	m := messenger.New()
	messenger.SetDefault(m)
	defer messenger.SetDefault(nil)

	var mu sync.Mutex
	var got []messenger.ObjectDisappearing
	done := make(chan struct{}, 1)
	messenger.OnObjectDisappearing(m, func(od messenger.ObjectDisappearing) {
		mu.Lock()
		got = append(got, od)
		mu.Unlock()
		select {
		case done <- struct{}{}:
		default:
		}
	})

	id := func() string {
		h := newTestHost("reclaimed", nil)
		Watch(&h.guard, h)
		return h.guard.ID()
	}()

	deadline := time.After(5 * time.Second)
	for {
		runtime.GC()
		select {
		case <-done:
			mu.Lock()
			defer mu.Unlock()
			if len(got) != 1 || got[0].ID != id || !got[0].Reclaimed || got[0].Payload != nil {
				t.Errorf("unexpected reclamation message %+v", got)
			}
			return
		case <-deadline:
			t.Fatal("reclamation message not received")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWatch_ExplicitCleanUpCancelsReclamation(t *testing.T) {
	msgs := captureMessages(t)
	h := newTestHost("h", nil)
	Watch(&h.guard, h)
	Watch(&h.guard, h)

	h.CleanUp()
	if len(*msgs) != 1 {
		t.Fatalf("broadcast %d messages, want 1", len(*msgs))
	}
	if h.guard.watching {
		t.Error("CleanUp should stop the reclamation cleanup")
	}

	Watch(&h.guard, h)
	if h.guard.watching {
		t.Error("a guard that is already cleaning up must not be watched")
	}
}

type recordingObserver struct {
	mu        sync.Mutex
	delivered []Event
	cleanups  []string
}

func (o *recordingObserver) EventDelivered(ev Event, host, origin any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.delivered = append(o.delivered, ev)
}

func (o *recordingObserver) CleanupStarted(id string, subject any, reclaimed bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cleanups = append(o.cleanups, id)
}

func TestObserverSeesDeliveriesAndCleanups(t *testing.T) {
	captureMessages(t)
	obs := &recordingObserver{}
	SetObserver(obs)
	defer SetObserver(nil)

	page := newTestPage("page", nil)
	v := newTestHost("v", nil)
	v.SetPageSource(page)

	page.appear()
	page.disappear()

	if len(obs.delivered) != 2 || obs.delivered[0] != PageAppearing || obs.delivered[1] != PageDisappearing {
		t.Errorf("delivered = %v", obs.delivered)
	}
	if len(obs.cleanups) != 1 || obs.cleanups[0] != v.guard.ID() {
		t.Errorf("cleanups = %v, want [%s]", obs.cleanups, v.guard.ID())
	}
}
