package testing

import (
	"fmt"
	"sync"

	"github.com/go-drift/lifecycle/pkg/lifecycle"
	"github.com/go-drift/lifecycle/pkg/views"
)

// EventCleaningUp is the name recording nodes log when they start cleaning up.
const EventCleaningUp = "cleaning-up"

// Entry is one recorded hook call.
type Entry struct {
	Host   string `json:"host"`
	Event  string `json:"event"`
	Origin string `json:"origin,omitempty"`
}

func (e Entry) String() string {
	if e.Origin == "" {
		return e.Host + ":" + e.Event
	}
	return e.Host + ":" + e.Event + "@" + e.Origin
}

// Recorder logs hook calls in order. Safe for concurrent use. The zero value
// is ready to use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Record appends an entry. origin is formatted with %v; nil is left empty.
func (r *Recorder) Record(host, event string, origin any) {
	e := Entry{Host: host, Event: event}
	if origin != nil {
		e.Origin = fmt.Sprint(origin)
	}
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
}

// Entries returns a copy of everything recorded.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Strings returns the entries as "host:event" strings, without origins.
func (r *Recorder) Strings() []string {
	entries := r.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Host + ":" + e.Event
	}
	return out
}

// Count returns how many times host recorded event.
func (r *Recorder) Count(host, event string) int {
	n := 0
	for _, e := range r.Entries() {
		if e.Host == host && e.Event == event {
			n++
		}
	}
	return n
}

// Reset discards all entries.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}

// View is a ContentView that records every hook it receives.
type View struct {
	*views.ContentView
	rec *Recorder
}

// NewView returns a bound recording view.
func NewView(name string, rec *Recorder) *View {
	v := &View{ContentView: views.NewContentView(name), rec: rec}
	v.Bind(v)
	return v
}

func (v *View) record(ev lifecycle.Event, origin any) { v.rec.Record(v.Name(), ev.String(), origin) }

func (v *View) OnAppStarting()                 { v.record(lifecycle.AppStarting, nil) }
func (v *View) OnAppResuming()                 { v.record(lifecycle.AppResuming, nil) }
func (v *View) OnAppGoingToSleep()             { v.record(lifecycle.AppGoingToSleep, nil) }
func (v *View) OnPageAppearing(origin any)     { v.record(lifecycle.PageAppearing, origin) }
func (v *View) OnPageDisappearing(origin any)  { v.record(lifecycle.PageDisappearing, origin) }
func (v *View) OnStageAppearing(origin any)    { v.record(lifecycle.StageAppearing, origin) }
func (v *View) OnStageDisappearing(origin any) { v.record(lifecycle.StageDisappearing, origin) }
func (v *View) OnCleaningUp()                  { v.rec.Record(v.Name(), EventCleaningUp, nil) }

// ViewModel is a ViewModel that records every hook it receives.
type ViewModel struct {
	*views.ViewModel
	rec *Recorder
}

// NewViewModel returns a bound recording view model.
func NewViewModel(name string, rec *Recorder) *ViewModel {
	vm := &ViewModel{ViewModel: views.NewViewModel(name), rec: rec}
	vm.Bind(vm)
	return vm
}

func (vm *ViewModel) record(ev lifecycle.Event, origin any) {
	vm.rec.Record(vm.Name(), ev.String(), origin)
}

func (vm *ViewModel) OnAppStarting()                 { vm.record(lifecycle.AppStarting, nil) }
func (vm *ViewModel) OnAppResuming()                 { vm.record(lifecycle.AppResuming, nil) }
func (vm *ViewModel) OnAppGoingToSleep()             { vm.record(lifecycle.AppGoingToSleep, nil) }
func (vm *ViewModel) OnPageAppearing(origin any)     { vm.record(lifecycle.PageAppearing, origin) }
func (vm *ViewModel) OnPageDisappearing(origin any)  { vm.record(lifecycle.PageDisappearing, origin) }
func (vm *ViewModel) OnStageAppearing(origin any)    { vm.record(lifecycle.StageAppearing, origin) }
func (vm *ViewModel) OnStageDisappearing(origin any) { vm.record(lifecycle.StageDisappearing, origin) }
func (vm *ViewModel) OnCleaningUp()                  { vm.rec.Record(vm.Name(), EventCleaningUp, nil) }

// Page is a Page that records the App events it receives.
type Page struct {
	*views.Page
	rec *Recorder
}

// NewPage returns a bound recording page.
func NewPage(name string, rec *Recorder) *Page {
	p := &Page{Page: views.NewPage(name), rec: rec}
	p.Bind(p)
	return p
}

func (p *Page) OnAppStarting()     { p.rec.Record(p.Name(), lifecycle.AppStarting.String(), nil) }
func (p *Page) OnAppResuming()     { p.rec.Record(p.Name(), lifecycle.AppResuming.String(), nil) }
func (p *Page) OnAppGoingToSleep() { p.rec.Record(p.Name(), lifecycle.AppGoingToSleep.String(), nil) }
