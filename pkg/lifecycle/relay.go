package lifecycle

import (
	"reflect"

	"github.com/go-drift/lifecycle/pkg/errors"
)

// SetAppSource replaces the AppSource held in slot on behalf of host.
//
// The host is first unsubscribed from every App event of the current source,
// then slot is assigned, then the host is subscribed to src if it is not nil.
// Assigning the source already held resubscribes the host, which moves it
// behind every host subscribed so far. No event fires as a result.
//
// The slot keeps src alive for as long as host holds it; the subscription
// itself only refers to host weakly.
//
// A nil host or slot returns an error matching errors.ErrInvalidArgument and
// leaves slot unchanged.
func SetAppSource(host AppHost, slot *AppSource, src AppSource) error {
	return setSource(host, slot, src, FamilyApp, "lifecycle.SetAppSource", AppSource.AppEvents)
}

// SetPageSource is SetAppSource for the Page family.
func SetPageSource(host PageHost, slot *PageSource, src PageSource) error {
	return setSource(host, slot, src, FamilyPage, "lifecycle.SetPageSource", PageSource.PageEvents)
}

// SetStageSource is SetAppSource for the Stage family.
func SetStageSource(host StageHost, slot *StageSource, src StageSource) error {
	return setSource(host, slot, src, FamilyStage, "lifecycle.SetStageSource", StageSource.StageEvents)
}

func setSource[S comparable](host Anchored, slot *S, src S, family Family, op string, events func(S) *Emitter) error {
	if isNil(host) {
		return errors.InvalidArgument(op, family.String(), "cannot pass a nil host")
	}
	if slot == nil {
		return errors.InvalidArgument(op, family.String(), "cannot pass a nil source slot")
	}
	anchor := host.LifecycleAnchor()
	if anchor == nil {
		return errors.InvalidArgument(op, family.String(), "host has no lifecycle anchor")
	}

	var zero S
	if isNil(src) {
		src = zero
	}
	if *slot != zero {
		events(*slot).unsubscribe(anchor, family)
	}
	*slot = src
	if src != zero {
		events(src).subscribe(anchor, family)
	}
	return nil
}

// isNil reports whether v is nil or an interface holding a nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
