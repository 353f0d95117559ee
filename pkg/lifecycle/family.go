package lifecycle

import "fmt"

// Family names a group of related lifecycle notifications.
type Family int

const (
	// FamilyApp covers application starting, resuming and going to sleep.
	FamilyApp Family = iota
	// FamilyPage covers page appearing and disappearing.
	FamilyPage
	// FamilyStage covers stage appearing and disappearing.
	FamilyStage
)

// Families lists every family in resolution order.
var Families = []Family{FamilyApp, FamilyPage, FamilyStage}

func (f Family) String() string {
	switch f {
	case FamilyApp:
		return "app"
	case FamilyPage:
		return "page"
	case FamilyStage:
		return "stage"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// Event is a single lifecycle notification.
type Event int

const (
	AppStarting Event = iota
	AppResuming
	AppGoingToSleep
	PageAppearing
	PageDisappearing
	StageAppearing
	StageDisappearing
)

var eventNames = map[Event]string{
	AppStarting:       "app.starting",
	AppResuming:       "app.resuming",
	AppGoingToSleep:   "app.going-to-sleep",
	PageAppearing:     "page.appearing",
	PageDisappearing:  "page.disappearing",
	StageAppearing:    "stage.appearing",
	StageDisappearing: "stage.disappearing",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// Family returns the family the event belongs to.
func (e Event) Family() Family {
	switch e {
	case PageAppearing, PageDisappearing:
		return FamilyPage
	case StageAppearing, StageDisappearing:
		return FamilyStage
	default:
		return FamilyApp
	}
}

// Disappearing reports whether the event ends the visibility of its source.
func (e Event) Disappearing() bool {
	return e == PageDisappearing || e == StageDisappearing
}

// ParseEvent returns the event whose String form is name.
func ParseEvent(name string) (Event, error) {
	for ev, n := range eventNames {
		if n == name {
			return ev, nil
		}
	}
	return 0, fmt.Errorf("unknown lifecycle event %q", name)
}
