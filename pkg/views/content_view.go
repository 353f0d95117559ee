package views

import (
	"fmt"

	"github.com/go-drift/lifecycle/pkg/errors"
	"github.com/go-drift/lifecycle/pkg/lifecycle"
)

// CleaningUpHook is implemented by nodes that release resources when they
// start cleaning up.
type CleaningUpHook interface {
	OnCleaningUp()
}

// ContentView hosts all three lifecycle families and passes them on to its
// content and binding context.
type ContentView struct {
	name           string
	anchor         *lifecycle.Anchor
	app            lifecycle.AppSource
	page           lifecycle.PageSource
	stage          lifecycle.StageSource
	guard          lifecycle.Guard
	disposers      disposers
	content        any
	bindingContext any
}

// NewContentView creates a live content view.
func NewContentView(name string) *ContentView {
	v := &ContentView{name: name}
	v.anchor = lifecycle.NewAnchor(v)
	lifecycle.Watch(&v.guard, v)
	return v
}

// Bind makes self the receiver of this view's hooks and the payload of its
// disappearing message. Types embedding a *ContentView call it once with
// their own pointer.
func (v *ContentView) Bind(self any) { v.anchor.Bind(self) }

func (v *ContentView) self() any { return v.anchor.Self() }

// Name returns the name the view was created with.
func (v *ContentView) Name() string { return v.name }

func (v *ContentView) String() string { return fmt.Sprintf("view(%s)", v.name) }

// LifecycleAnchor implements lifecycle.Anchored.
func (v *ContentView) LifecycleAnchor() *lifecycle.Anchor { return v.anchor }

// AppSource returns the resolved App source.
func (v *ContentView) AppSource() lifecycle.AppSource { return v.app }

// SetAppSource subscribes the view to src's App events.
func (v *ContentView) SetAppSource(src lifecycle.AppSource) {
	report(lifecycle.SetAppSource(v, &v.app, src))
}

// PageSource returns the resolved Page source.
func (v *ContentView) PageSource() lifecycle.PageSource { return v.page }

// SetPageSource subscribes the view to src's Page events.
func (v *ContentView) SetPageSource(src lifecycle.PageSource) {
	report(lifecycle.SetPageSource(v, &v.page, src))
}

// StageSource returns the resolved Stage source.
func (v *ContentView) StageSource() lifecycle.StageSource { return v.stage }

// SetStageSource subscribes the view to src's Stage events.
func (v *ContentView) SetStageSource(src lifecycle.StageSource) {
	report(lifecycle.SetStageSource(v, &v.stage, src))
}

func (v *ContentView) OnAppStarting()                 {}
func (v *ContentView) OnAppResuming()                 {}
func (v *ContentView) OnAppGoingToSleep()             {}
func (v *ContentView) OnPageAppearing(origin any)     {}
func (v *ContentView) OnPageDisappearing(origin any)  {}
func (v *ContentView) OnStageAppearing(origin any)    {}
func (v *ContentView) OnStageDisappearing(origin any) {}

// Content returns the view in the content slot.
func (v *ContentView) Content() any { return v.content }

// SetContent places child in the content slot and resolves its sources from
// this view.
func (v *ContentView) SetContent(child any) {
	v.content = child
	lifecycle.Propagate(child, v.self())
}

// BindingContext returns the view's binding context, usually a *ViewModel.
func (v *ContentView) BindingContext() any { return v.bindingContext }

// SetBindingContext replaces the binding context and resolves its sources
// from this view.
func (v *ContentView) SetBindingContext(ctx any) {
	v.bindingContext = ctx
	lifecycle.Propagate(ctx, v.self())
}

// LifecycleChildren implements lifecycle.Container.
func (v *ContentView) LifecycleChildren() []any {
	return children(v.content, v.bindingContext)
}

// IsCleaningUp reports whether the view has started cleaning up.
func (v *ContentView) IsCleaningUp() bool { return v.guard.IsCleaningUp() }

// CleanUp moves the view to cleaning up. Only the first call has any effect:
// it runs OnCleaningUp and the functions registered with OnCleanUp, cleans
// up the content and binding context, then broadcasts
// messenger.ObjectDisappearing.
func (v *ContentView) CleanUp() {
	self := v.self()
	v.guard.CleanUp(self, func() {
		runCleaningUpHook(self, "views.ContentView.OnCleaningUp")
		v.disposers.run("views.ContentView.OnCleanUp")
		cascadeCleanUp(v.content, v.bindingContext)
	})
}

// OnCleanUp registers fn to run, newest first, when the view starts cleaning
// up, and returns a function that unregisters it. Registering on a view that
// is already cleaning up runs fn immediately.
func (v *ContentView) OnCleanUp(fn func()) func() {
	return v.disposers.add(fn, "views.ContentView.OnCleanUp")
}

// Dispose cleans the view up.
func (v *ContentView) Dispose() { v.CleanUp() }

// ForceDisappearing cleans the view up without waiting for its page.
func (v *ContentView) ForceDisappearing() { v.CleanUp() }

// CleanupID returns the identity carried by the view's disappearing message.
func (v *ContentView) CleanupID() string { return v.guard.ID() }

func children(nodes ...any) []any {
	out := make([]any, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func runCleaningUpHook(self any, op string) {
	h, ok := self.(CleaningUpHook)
	if !ok {
		return
	}
	defer errors.RecoverHook(op)
	h.OnCleaningUp()
}

func cascadeCleanUp(nodes ...any) {
	for _, n := range nodes {
		if c, ok := n.(lifecycle.Cleaner); ok {
			c.CleanUp()
		}
	}
}

// report forwards a relay error to the global handler. Nodes always pass
// themselves as host, so this only fires on programming errors.
func report(err error) {
	if err == nil {
		return
	}
	var le *errors.LifecycleError
	if errors.As(err, &le) {
		errors.Report(le)
		return
	}
	errors.Report(&errors.LifecycleError{Op: "views", Kind: errors.KindUnknown, Err: err})
}
