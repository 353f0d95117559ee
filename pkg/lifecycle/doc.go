// Package lifecycle relays lifecycle notifications down a tree of nodes.
//
// Three families of notifications exist: App (starting, resuming, going to
// sleep), Page (appearing, disappearing) and Stage (appearing, disappearing).
// A node that raises a family is a source; a node that reacts to a family is a
// host. Most nodes are both: they receive from their ancestor and re-expose to
// their descendants.
//
// # Capabilities
//
// Nodes opt in by implementing capability interfaces rather than embedding a
// common base type:
//
//	AppSource, PageSource, StageSource   // raise events through an *Emitter
//	AppHost, PageHost, StageHost         // hold one source per family and receive hooks
//	Cleaner                              // one-shot cleanup guard
//	Container                            // exposes lifecycle-aware children
//
// # Relay
//
// A host keeps at most one source per family. SetAppSource, SetPageSource and
// SetStageSource unsubscribe the host from the old source before subscribing
// it to the new one:
//
//	func (v *myView) SetPageSource(src lifecycle.PageSource) {
//	    _ = lifecycle.SetPageSource(v, &v.page, src)
//	}
//
// Emitters only hold weak pointers to a host's Anchor, so a subscription never
// keeps a host alive and a dropped source takes its subscriptions with it.
//
// # Propagation
//
// When a node's parent association changes, Propagate resolves each family
// from the new parent (the parent itself if it is a source, otherwise the
// parent's own resolved source) and repeats for every child the node exposes
// through Container.
//
// # Cleanup
//
// Guard is the one-shot "cleaning up" flag. The first CleanUp runs a local
// teardown hook and broadcasts messenger.ObjectDisappearing; later calls are
// no-ops. A host that is a Cleaner cleans up automatically when its page or
// stage source reports disappearing.
//
// # Threading
//
// Emitters and host slots are not thread-safe. Raise events, assign sources
// and propagate from the UI thread only; use platform.Dispatch to get there
// from a background goroutine.
package lifecycle
