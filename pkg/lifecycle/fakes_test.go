package lifecycle

import (
	"fmt"
	"testing"

	"github.com/go-drift/lifecycle/pkg/errors"
	"github.com/go-drift/lifecycle/pkg/messenger"
)

// testSource raises App and Page events through one emitter.
type testSource struct {
	name   string
	events Emitter
}

func (s *testSource) AppEvents() *Emitter  { return &s.events }
func (s *testSource) PageEvents() *Emitter { return &s.events }
func (s *testSource) String() string       { return s.name }

// testStage is a StageSource that also hosts the page family like a view.
type testStage struct {
	testHost
	stageEvents Emitter
}

func newTestStage(name string, log *[]string) *testStage {
	s := &testStage{}
	s.name = name
	s.log = log
	s.panicOn = -1
	s.anchor = NewAnchor(s)
	return s
}

func (s *testStage) StageEvents() *Emitter     { return &s.stageEvents }
func (s *testStage) RaiseStageAppearing()      { s.stageEvents.Emit(StageAppearing, s) }
func (s *testStage) RaiseStageDisappearing()   { s.stageEvents.Emit(StageDisappearing, s) }
func (s *testStage) LifecycleAnchor() *Anchor  { return s.anchor }
func (s *testStage) LifecycleChildren() []any  { return s.children }
func (s *testStage) setContent(child any)      { s.children = []any{child}; Propagate(child, s) }

// testPage hosts the app family and is a page source.
type testPage struct {
	name     string
	anchor   *Anchor
	app      AppSource
	events   Emitter
	children []any
	log      *[]string
}

func newTestPage(name string, log *[]string) *testPage {
	p := &testPage{name: name, log: log}
	p.anchor = NewAnchor(p)
	return p
}

func (p *testPage) LifecycleAnchor() *Anchor { return p.anchor }
func (p *testPage) AppSource() AppSource     { return p.app }
func (p *testPage) SetAppSource(src AppSource) {
	if err := SetAppSource(p, &p.app, src); err != nil {
		panic(err)
	}
}
func (p *testPage) OnAppStarting()           { p.record("app.starting", nil) }
func (p *testPage) OnAppResuming()           { p.record("app.resuming", nil) }
func (p *testPage) OnAppGoingToSleep()       { p.record("app.going-to-sleep", nil) }
func (p *testPage) PageEvents() *Emitter     { return &p.events }
func (p *testPage) LifecycleChildren() []any { return p.children }
func (p *testPage) setContent(child any)     { p.children = []any{child}; Propagate(child, p) }
func (p *testPage) appear()                  { p.events.Emit(PageAppearing, p) }
func (p *testPage) disappear()               { p.events.Emit(PageDisappearing, p) }

func (p *testPage) record(what string, origin any) {
	if p.log != nil {
		*p.log = append(*p.log, p.name+":"+what)
	}
}

// testHost hosts every family, owns a cleanup guard and has one content slot.
type testHost struct {
	name     string
	anchor   *Anchor
	app      AppSource
	page     PageSource
	stage    StageSource
	guard    Guard
	children []any
	log      *[]string
	origins  []any
	panicOn  Event
	onEvent  func(ev Event)
	teardown int
}

func newTestHost(name string, log *[]string) *testHost {
	h := &testHost{name: name, log: log, panicOn: -1}
	h.anchor = NewAnchor(h)
	return h
}

func (h *testHost) LifecycleAnchor() *Anchor { return h.anchor }
func (h *testHost) AppSource() AppSource     { return h.app }
func (h *testHost) PageSource() PageSource   { return h.page }
func (h *testHost) StageSource() StageSource { return h.stage }

func (h *testHost) SetAppSource(src AppSource) {
	if err := SetAppSource(h, &h.app, src); err != nil {
		panic(err)
	}
}

func (h *testHost) SetPageSource(src PageSource) {
	if err := SetPageSource(h, &h.page, src); err != nil {
		panic(err)
	}
}

func (h *testHost) SetStageSource(src StageSource) {
	if err := SetStageSource(h, &h.stage, src); err != nil {
		panic(err)
	}
}

func (h *testHost) OnAppStarting()                 { h.handle(AppStarting, nil) }
func (h *testHost) OnAppResuming()                 { h.handle(AppResuming, nil) }
func (h *testHost) OnAppGoingToSleep()             { h.handle(AppGoingToSleep, nil) }
func (h *testHost) OnPageAppearing(origin any)     { h.handle(PageAppearing, origin) }
func (h *testHost) OnPageDisappearing(origin any)  { h.handle(PageDisappearing, origin) }
func (h *testHost) OnStageAppearing(origin any)    { h.handle(StageAppearing, origin) }
func (h *testHost) OnStageDisappearing(origin any) { h.handle(StageDisappearing, origin) }

func (h *testHost) IsCleaningUp() bool { return h.guard.IsCleaningUp() }
func (h *testHost) CleanUp()           { h.guard.CleanUp(h, func() { h.teardown++ }) }

func (h *testHost) LifecycleChildren() []any { return h.children }
func (h *testHost) setContent(child any)     { h.children = []any{child}; Propagate(child, h) }

func (h *testHost) handle(ev Event, origin any) {
	if ev == h.panicOn {
		panic(fmt.Sprintf("%s failed on %s", h.name, ev))
	}
	if h.log != nil {
		*h.log = append(*h.log, h.name+":"+ev.String())
	}
	h.origins = append(h.origins, origin)
	if h.onEvent != nil {
		h.onEvent(ev)
	}
}

func (h *testHost) count(ev Event) int {
	n := 0
	want := h.name + ":" + ev.String()
	for _, entry := range *h.log {
		if entry == want {
			n++
		}
	}
	return n
}

// panicRecorder captures reported panics.
type panicRecorder struct {
	panics []*errors.PanicError
	errs   []*errors.LifecycleError
}

func (r *panicRecorder) HandleError(err *errors.LifecycleError) { r.errs = append(r.errs, err) }
func (r *panicRecorder) HandlePanic(err *errors.PanicError)     { r.panics = append(r.panics, err) }

func capturePanics(t *testing.T) *panicRecorder {
	t.Helper()
	r := &panicRecorder{}
	errors.SetHandler(r)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return r
}

// captureMessages installs a fresh default messenger and records what it sends.
func captureMessages(t *testing.T) *[]messenger.ObjectDisappearing {
	t.Helper()
	m := messenger.New()
	messenger.SetDefault(m)
	t.Cleanup(func() { messenger.SetDefault(nil) })
	var got []messenger.ObjectDisappearing
	messenger.OnObjectDisappearing(m, func(od messenger.ObjectDisappearing) {
		got = append(got, od)
	})
	return &got
}
