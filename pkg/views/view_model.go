package views

import (
	"fmt"

	"github.com/go-drift/lifecycle/pkg/errors"
	"github.com/go-drift/lifecycle/pkg/lifecycle"
)

// PropertyChangedHandler is called with the name of a changed property.
type PropertyChangedHandler func(name string)

// ViewModel is a non-visual node that hosts all three lifecycle families.
// It usually sits in a ContentView's binding context and follows it around
// the tree.
//
// A ViewModel cleans itself up when its page or stage disappears. Embed it by
// pointer and Bind the outer value to receive hooks.
type ViewModel struct {
	name      string
	anchor    *lifecycle.Anchor
	app       lifecycle.AppSource
	page      lifecycle.PageSource
	stage     lifecycle.StageSource
	guard     lifecycle.Guard
	disposers disposers
	handlers  []propertyHandler
	nextID    int
}

type propertyHandler struct {
	id int
	fn PropertyChangedHandler
}

// NewViewModel creates a live view model.
func NewViewModel(name string) *ViewModel {
	vm := &ViewModel{name: name}
	vm.anchor = lifecycle.NewAnchor(vm)
	lifecycle.Watch(&vm.guard, vm)
	return vm
}

// Bind makes self the receiver of this view model's hooks.
func (vm *ViewModel) Bind(self any) { vm.anchor.Bind(self) }

// Name returns the name the view model was created with.
func (vm *ViewModel) Name() string { return vm.name }

func (vm *ViewModel) String() string { return fmt.Sprintf("viewmodel(%s)", vm.name) }

func (vm *ViewModel) LifecycleAnchor() *lifecycle.Anchor { return vm.anchor }

func (vm *ViewModel) AppSource() lifecycle.AppSource { return vm.app }
func (vm *ViewModel) SetAppSource(src lifecycle.AppSource) {
	report(lifecycle.SetAppSource(vm, &vm.app, src))
}

func (vm *ViewModel) PageSource() lifecycle.PageSource { return vm.page }
func (vm *ViewModel) SetPageSource(src lifecycle.PageSource) {
	report(lifecycle.SetPageSource(vm, &vm.page, src))
}

func (vm *ViewModel) StageSource() lifecycle.StageSource { return vm.stage }
func (vm *ViewModel) SetStageSource(src lifecycle.StageSource) {
	report(lifecycle.SetStageSource(vm, &vm.stage, src))
}

func (vm *ViewModel) OnAppStarting()                 {}
func (vm *ViewModel) OnAppResuming()                 {}
func (vm *ViewModel) OnAppGoingToSleep()             {}
func (vm *ViewModel) OnPageAppearing(origin any)     {}
func (vm *ViewModel) OnPageDisappearing(origin any)  {}
func (vm *ViewModel) OnStageAppearing(origin any)    {}
func (vm *ViewModel) OnStageDisappearing(origin any) {}

// IsCleaningUp reports whether the view model has started cleaning up.
func (vm *ViewModel) IsCleaningUp() bool { return vm.guard.IsCleaningUp() }

// CleanUp runs OnCleaningUp and the OnCleanUp functions, then broadcasts
// messenger.ObjectDisappearing, once.
func (vm *ViewModel) CleanUp() {
	self := vm.anchor.Self()
	vm.guard.CleanUp(self, func() {
		runCleaningUpHook(self, "views.ViewModel.OnCleaningUp")
		vm.disposers.run("views.ViewModel.OnCleanUp")
	})
}

// OnCleanUp registers fn to run, newest first, when the view model starts
// cleaning up, and returns a function that unregisters it.
func (vm *ViewModel) OnCleanUp(fn func()) func() {
	return vm.disposers.add(fn, "views.ViewModel.OnCleanUp")
}

// Dispose cleans the view model up.
func (vm *ViewModel) Dispose() { vm.CleanUp() }

// CleanupID returns the identity carried by the disappearing message.
func (vm *ViewModel) CleanupID() string { return vm.guard.ID() }

// AddPropertyChangedHandler registers fn and returns a function that removes it.
func (vm *ViewModel) AddPropertyChangedHandler(fn PropertyChangedHandler) func() {
	vm.nextID++
	id := vm.nextID
	vm.handlers = append(vm.handlers, propertyHandler{id: id, fn: fn})
	return func() {
		for i, h := range vm.handlers {
			if h.id == id {
				vm.handlers = append(vm.handlers[:i:i], vm.handlers[i+1:]...)
				return
			}
		}
	}
}

// NotifyPropertyChanged tells every handler that name changed. Nothing is
// sent once the view model is cleaning up.
func (vm *ViewModel) NotifyPropertyChanged(name string) {
	if vm.IsCleaningUp() {
		return
	}
	for _, h := range append([]propertyHandler(nil), vm.handlers...) {
		callPropertyHandler(h.fn, name)
	}
}

func callPropertyHandler(fn PropertyChangedHandler, name string) {
	defer errors.RecoverHook("views.ViewModel.PropertyChanged")
	fn(name)
}
