package views

import (
	"sync"

	"github.com/go-drift/lifecycle/pkg/errors"
	"github.com/go-drift/lifecycle/pkg/messenger"
)

// disposers holds cleanup functions registered on a node. They run once,
// newest first, when the node starts cleaning up.
type disposers struct {
	mu    sync.Mutex
	funcs []func()
	done  bool
}

// add registers fn and returns a function that unregisters it. If the
// disposers already ran, fn runs immediately.
func (d *disposers) add(fn func(), op string) func() {
	if fn == nil {
		return func() {}
	}

	d.mu.Lock()
	if d.done {
		d.mu.Unlock()
		runDisposer(fn, op)
		return func() {}
	}
	index := len(d.funcs)
	d.funcs = append(d.funcs, fn)
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if index < len(d.funcs) {
			d.funcs[index] = nil
		}
	}
}

// run executes every registered function in reverse order. Only the first
// call does anything.
func (d *disposers) run(op string) {
	d.mu.Lock()
	if d.done {
		d.mu.Unlock()
		return
	}
	d.done = true
	funcs := d.funcs
	d.funcs = nil
	d.mu.Unlock()

	for i := len(funcs) - 1; i >= 0; i-- {
		if funcs[i] != nil {
			runDisposer(funcs[i], op)
		}
	}
}

func runDisposer(fn func(), op string) {
	defer errors.RecoverHook(op)
	fn()
}

// CleanUpRegistrar is a node that runs registered functions when it starts
// cleaning up. ContentView, Stage and ViewModel implement it.
type CleanUpRegistrar interface {
	OnCleanUp(fn func()) (remove func())
}

// UseSubscription subscribes h to m until node starts cleaning up.
//
//	func NewBasketVM() *BasketVM {
//	    vm := &BasketVM{ViewModel: views.NewViewModel("basket")}
//	    vm.Bind(vm)
//	    views.UseSubscription(vm, messenger.Default(), vm.onMessage)
//	    return vm
//	}
func UseSubscription(node CleanUpRegistrar, m *messenger.Messenger, h messenger.Handler) {
	unsub := m.Subscribe(h)
	node.OnCleanUp(unsub)
}
