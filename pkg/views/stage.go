package views

import (
	"fmt"

	"github.com/go-drift/lifecycle/pkg/lifecycle"
)

// Stage is a ContentView that is also the Stage source for its subtree. An
// overlay or panel that comes and goes within a page is typically a Stage.
type Stage struct {
	*ContentView
	stageEvents lifecycle.Emitter
}

// NewStage creates a live stage.
func NewStage(name string) *Stage {
	s := &Stage{ContentView: NewContentView(name)}
	s.ContentView.Bind(s)
	return s
}

func (s *Stage) String() string { return fmt.Sprintf("stage(%s)", s.name) }

// StageEvents implements lifecycle.StageSource.
func (s *Stage) StageEvents() *lifecycle.Emitter { return &s.stageEvents }

// RaiseStageAppearing tells the subtree the stage is now showing.
func (s *Stage) RaiseStageAppearing() {
	s.stageEvents.Emit(lifecycle.StageAppearing, s.self())
}

// RaiseStageDisappearing tells the subtree the stage is going away, which
// cleans up every content view and view model under it.
func (s *Stage) RaiseStageDisappearing() {
	s.stageEvents.Emit(lifecycle.StageDisappearing, s.self())
}
