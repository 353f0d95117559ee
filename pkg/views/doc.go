// Package views provides the concrete lifecycle-aware nodes an application
// tree is built from: an App root, Pages, Stages, ContentViews and
// ViewModels.
//
// Nodes are plain Go objects with a content slot and a binding-context slot.
// Placing a node in either slot resolves its lifecycle sources from the
// container, so events raised by the App, a Page or a Stage reach every
// descendant:
//
//	app := views.NewApp("shop")
//	page := views.NewPage("cart")
//	list := views.NewContentView("items")
//	list.SetBindingContext(views.NewViewModel("items-vm"))
//	page.SetContent(list)
//	app.SetMainPage(page)
//
//	app.Start()   // page, list and the view model see OnAppStarting
//	page.Appear() // list and the view model see OnPageAppearing(page)
//
// # Overriding hooks
//
// Hooks default to no-ops. To react to events, embed a node by pointer,
// define the hooks on the outer type and Bind the outer value so deliveries
// reach it:
//
//	type Basket struct {
//	    *views.ContentView
//	}
//
//	func NewBasket() *Basket {
//	    b := &Basket{ContentView: views.NewContentView("basket")}
//	    b.Bind(b)
//	    return b
//	}
//
//	func (b *Basket) OnPageAppearing(origin any) { b.refresh() }
//	func (b *Basket) OnCleaningUp()              { b.cancelRequests() }
//
// # Cleanup
//
// ContentViews and ViewModels clean up exactly once: on Dispose, when their
// page or stage disappears, or when they are garbage collected while still
// live. Cleaning up runs the OnCleaningUp hook, then the functions registered
// with OnCleanUp (newest first), cascades to lifecycle-aware children and
// broadcasts messenger.ObjectDisappearing. UseSubscription ties a messenger
// subscription to that moment:
//
//	views.UseSubscription(list, messenger.Default(), list.handle)
package views
