package views

import (
	"fmt"

	"github.com/go-drift/lifecycle/pkg/lifecycle"
	"github.com/go-drift/lifecycle/pkg/platform"
)

// App is the root of the tree and the App source for everything in it.
type App struct {
	name     string
	events   lifecycle.Emitter
	mainPage any
	started  bool
	sleeping bool
	unbind   func()
}

// NewApp creates an app that has not started.
func NewApp(name string) *App {
	return &App{name: name}
}

// Name returns the name the app was created with.
func (a *App) Name() string { return a.name }

func (a *App) String() string { return fmt.Sprintf("app(%s)", a.name) }

// AppEvents implements lifecycle.AppSource.
func (a *App) AppEvents() *lifecycle.Emitter { return &a.events }

// MainPage returns the current main page.
func (a *App) MainPage() any { return a.mainPage }

// SetMainPage makes page the main page and resolves its sources, and those
// of its whole subtree, from the app.
func (a *App) SetMainPage(page any) {
	a.mainPage = page
	lifecycle.Propagate(page, a)
}

// LifecycleChildren implements lifecycle.Container so tree walks can start
// at the app.
func (a *App) LifecycleChildren() []any { return children(a.mainPage) }

// Start raises AppStarting.
func (a *App) Start() {
	a.started = true
	a.sleeping = false
	a.events.Emit(lifecycle.AppStarting, a)
}

// Resume raises AppResuming.
func (a *App) Resume() {
	a.sleeping = false
	a.events.Emit(lifecycle.AppResuming, a)
}

// Sleep raises AppGoingToSleep.
func (a *App) Sleep() {
	a.sleeping = true
	a.events.Emit(lifecycle.AppGoingToSleep, a)
}

// Started reports whether Start has been called.
func (a *App) Started() bool { return a.started }

// Sleeping reports whether the app went to sleep and has not resumed.
func (a *App) Sleeping() bool { return a.sleeping }

// BindPlatform drives the app from svc: the first resumed state starts it,
// paused or detached puts it to sleep, and resumed after that resumes it.
// If svc is already resumed and the app has not started, it starts now.
// Binding again replaces the previous service; nil just unbinds.
func (a *App) BindPlatform(svc *platform.LifecycleService) {
	if a.unbind != nil {
		a.unbind()
		a.unbind = nil
	}
	if svc == nil {
		return
	}
	a.unbind = svc.AddHandler(a.applyPlatformState)
	if svc.IsResumed() {
		a.applyPlatformState(platform.LifecycleStateResumed)
	}
}

func (a *App) applyPlatformState(state platform.LifecycleState) {
	switch state {
	case platform.LifecycleStateResumed:
		switch {
		case !a.started:
			a.Start()
		case a.sleeping:
			a.Resume()
		}
	case platform.LifecycleStatePaused, platform.LifecycleStateDetached:
		if a.started && !a.sleeping {
			a.Sleep()
		}
	}
}
