package lifecycle

// AppSource raises App family events.
type AppSource interface {
	AppEvents() *Emitter
}

// PageSource raises Page family events. The origin passed with each event is
// the page that raised it.
type PageSource interface {
	PageEvents() *Emitter
}

// StageSource raises Stage family events and can be told to raise them.
type StageSource interface {
	StageEvents() *Emitter
	RaiseStageAppearing()
	RaiseStageDisappearing()
}

// Anchored is implemented by every host. The anchor is what emitters
// reference, weakly, on the host's behalf.
type Anchored interface {
	LifecycleAnchor() *Anchor
}

// AppHost holds at most one AppSource and reacts to its events.
type AppHost interface {
	Anchored
	AppSource() AppSource
	SetAppSource(src AppSource)
	OnAppStarting()
	OnAppResuming()
	OnAppGoingToSleep()
}

// PageHost holds at most one PageSource and reacts to its events.
type PageHost interface {
	Anchored
	PageSource() PageSource
	SetPageSource(src PageSource)
	OnPageAppearing(origin any)
	OnPageDisappearing(origin any)
}

// StageHost holds at most one StageSource and reacts to its events.
type StageHost interface {
	Anchored
	StageSource() StageSource
	SetStageSource(src StageSource)
	OnStageAppearing(origin any)
	OnStageDisappearing(origin any)
}

// Cleaner owns a one-shot cleanup flag.
type Cleaner interface {
	IsCleaningUp() bool
	CleanUp()
}

// ForceDisappearer can be made to disappear without its container's help.
type ForceDisappearer interface {
	ForceDisappearing()
}

// Container exposes the lifecycle-aware children a node pushes its sources to:
// its content slot and its binding context. Nil entries are skipped.
type Container interface {
	LifecycleChildren() []any
}
