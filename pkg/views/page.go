package views

import (
	"fmt"

	"github.com/go-drift/lifecycle/pkg/lifecycle"
)

// Page is a top-level screen. It hosts the App family and is the Page source
// for everything below it.
type Page struct {
	name           string
	anchor         *lifecycle.Anchor
	app            lifecycle.AppSource
	events         lifecycle.Emitter
	guard          lifecycle.Guard
	content        any
	bindingContext any
}

// NewPage creates a page with empty slots.
func NewPage(name string) *Page {
	p := &Page{name: name}
	p.anchor = lifecycle.NewAnchor(p)
	return p
}

// Bind makes self the receiver of this page's hooks and the origin of the
// Page events it raises.
func (p *Page) Bind(self any) { p.anchor.Bind(self) }

func (p *Page) self() any { return p.anchor.Self() }

// Name returns the name the page was created with.
func (p *Page) Name() string { return p.name }

func (p *Page) String() string { return fmt.Sprintf("page(%s)", p.name) }

func (p *Page) LifecycleAnchor() *lifecycle.Anchor { return p.anchor }

// AppSource returns the resolved App source.
func (p *Page) AppSource() lifecycle.AppSource { return p.app }

// SetAppSource subscribes the page to src's App events.
func (p *Page) SetAppSource(src lifecycle.AppSource) {
	report(lifecycle.SetAppSource(p, &p.app, src))
}

func (p *Page) OnAppStarting()     {}
func (p *Page) OnAppResuming()     {}
func (p *Page) OnAppGoingToSleep() {}

// PageEvents implements lifecycle.PageSource.
func (p *Page) PageEvents() *lifecycle.Emitter { return &p.events }

// Content returns the node in the content slot.
func (p *Page) Content() any { return p.content }

// SetContent places child in the content slot and resolves its sources from
// this page.
func (p *Page) SetContent(child any) {
	p.content = child
	lifecycle.Propagate(child, p.self())
}

// BindingContext returns the page's binding context.
func (p *Page) BindingContext() any { return p.bindingContext }

// SetBindingContext replaces the binding context and resolves its sources
// from this page.
func (p *Page) SetBindingContext(ctx any) {
	p.bindingContext = ctx
	lifecycle.Propagate(ctx, p.self())
}

// LifecycleChildren implements lifecycle.Container.
func (p *Page) LifecycleChildren() []any {
	return children(p.content, p.bindingContext)
}

// Appear raises PageAppearing with the page as origin.
func (p *Page) Appear() {
	p.events.Emit(lifecycle.PageAppearing, p.self())
}

// Disappear raises PageDisappearing with the page as origin, which cleans up
// every content view and view model hosted by the page. The first call also
// broadcasts messenger.ObjectDisappearing for the page itself.
func (p *Page) Disappear() {
	self := p.self()
	p.events.Emit(lifecycle.PageDisappearing, self)
	p.guard.CleanUp(self, nil)
}

// IsCleaningUp reports whether the page has disappeared for good.
func (p *Page) IsCleaningUp() bool { return p.guard.IsCleaningUp() }

// CleanUp disappears the page unless it already has.
func (p *Page) CleanUp() {
	if !p.IsCleaningUp() {
		p.Disappear()
	}
}

// Dispose disappears the page unless it already has.
func (p *Page) Dispose() { p.CleanUp() }

// ForceDisappearing disappears the page even if the platform never reported
// it gone.
func (p *Page) ForceDisappearing() { p.Disappear() }

// CleanupID returns the identity carried by the page's disappearing message.
func (p *Page) CleanupID() string { return p.guard.ID() }
