// Package scenario builds a lifecycle tree from a validated scenario and
// replays its steps.
package scenario

import (
	"fmt"

	"github.com/go-drift/lifecycle/cmd/lctrace/internal/config"
	"github.com/go-drift/lifecycle/pkg/lifecycle"
	"github.com/go-drift/lifecycle/pkg/overlay"
	"github.com/go-drift/lifecycle/pkg/platform"
	"github.com/go-drift/lifecycle/pkg/views"
)

type contentSlot interface {
	Content() any
	SetContent(child any)
}

type contextSlot interface {
	BindingContext() any
	SetBindingContext(ctx any)
}

type disposer interface {
	Dispose()
}

type appearer interface {
	Appear()
	Disappear()
}

// Tree holds the nodes built from a scenario, by id.
type Tree struct {
	nodes    map[string]any
	order    []string
	parents  map[string]placement
	platform map[string]*platform.LifecycleService
}

type placement struct {
	parent string
	slot   string
}

// Build constructs every node and places it in its parent's slot, in
// declaration order. Each app is bound to its own platform lifecycle
// service, driven by platform steps.
func Build(s *config.Scenario) (*Tree, error) {
	t := &Tree{
		nodes:    make(map[string]any, len(s.Nodes)),
		parents:  make(map[string]placement, len(s.Nodes)),
		platform: make(map[string]*platform.LifecycleService),
	}
	for _, n := range s.Nodes {
		node, err := newNode(n)
		if err != nil {
			return nil, err
		}
		t.nodes[n.ID] = node
		t.order = append(t.order, n.ID)
		if app, ok := node.(*views.App); ok {
			svc := platform.NewLifecycleService()
			app.BindPlatform(svc)
			t.platform[n.ID] = svc
		}
		if n.Parent != "" {
			if err := t.place(n.ID, n.Parent, n.Slot); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

func newNode(n config.Node) (any, error) {
	switch n.Kind {
	case config.KindApp:
		return views.NewApp(n.ID), nil
	case config.KindPage:
		return views.NewPage(n.ID), nil
	case config.KindStagedPage:
		return overlay.NewStagedPage(n.ID), nil
	case config.KindStage:
		return views.NewStage(n.ID), nil
	case config.KindView:
		return views.NewContentView(n.ID), nil
	case config.KindViewModel:
		return views.NewViewModel(n.ID), nil
	}
	return nil, fmt.Errorf("node %q: unknown kind %q", n.ID, n.Kind)
}

// Node returns the node with id, or nil.
func (t *Tree) Node(id string) any {
	return t.nodes[id]
}

// IDs returns node ids in declaration order.
func (t *Tree) IDs() []string {
	return append([]string(nil), t.order...)
}

// Roots returns the nodes that have no parent, in declaration order.
func (t *Tree) Roots() []any {
	var roots []any
	for _, id := range t.order {
		if _, ok := t.parents[id]; !ok {
			roots = append(roots, t.nodes[id])
		}
	}
	return roots
}

// Parent returns the id of the node's current parent and the slot it
// occupies, or empty strings for a root.
func (t *Tree) Parent(id string) (parent, slot string) {
	p := t.parents[id]
	return p.parent, p.slot
}

func (t *Tree) place(id, parentID, slot string) error {
	child, parent := t.nodes[id], t.nodes[parentID]
	if parent == nil {
		return fmt.Errorf("node %q: unknown parent %q", id, parentID)
	}
	switch slot {
	case config.SlotMain:
		app, ok := parent.(*views.App)
		if !ok {
			return fmt.Errorf("node %q: %q has no main slot", id, parentID)
		}
		app.SetMainPage(child)
	case config.SlotContent:
		c, ok := parent.(contentSlot)
		if !ok {
			return fmt.Errorf("node %q: %q has no content slot", id, parentID)
		}
		c.SetContent(child)
	case config.SlotContext:
		c, ok := parent.(contextSlot)
		if !ok {
			return fmt.Errorf("node %q: %q has no binding context", id, parentID)
		}
		c.SetBindingContext(child)
	case config.SlotStage:
		page, ok := parent.(*overlay.StagedPage)
		if !ok {
			return fmt.Errorf("node %q: %q has no stage slot", id, parentID)
		}
		stage, ok := child.(*views.Stage)
		if !ok {
			return fmt.Errorf("node %q: only stages go in the stage slot", id)
		}
		page.AddStage(stage, overlay.StageOptions{DoNotFocus: true, KeepOthers: true})
	default:
		return fmt.Errorf("node %q: unknown slot %q", id, slot)
	}
	t.parents[id] = placement{parent: parentID, slot: slot}
	return nil
}

// detach empties the slot the node occupies. Its sources stay as they were
// until it is placed again.
func (t *Tree) detach(id string) {
	p, ok := t.parents[id]
	if !ok {
		return
	}
	child, parent := t.nodes[id], t.nodes[p.parent]
	switch p.slot {
	case config.SlotMain:
		if app, ok := parent.(*views.App); ok && app.MainPage() == child {
			app.SetMainPage(nil)
		}
	case config.SlotContent:
		if c, ok := parent.(contentSlot); ok && c.Content() == child {
			c.SetContent(nil)
		}
	case config.SlotContext:
		if c, ok := parent.(contextSlot); ok && c.BindingContext() == child {
			c.SetBindingContext(nil)
		}
	case config.SlotStage:
		if page, ok := parent.(*overlay.StagedPage); ok {
			for _, e := range page.Entries() {
				if any(e.Stage()) == child {
					e.Remove()
				}
			}
		}
	}
	delete(t.parents, id)
}

// Apply replays one step.
func (t *Tree) Apply(st config.Step) error {
	target := t.nodes[st.Target]
	if target == nil {
		return fmt.Errorf("unknown target %q", st.Target)
	}

	switch st.Action {
	case config.ActionStart, config.ActionResume, config.ActionSleep:
		app, ok := target.(*views.App)
		if !ok {
			return mismatch(st, target, "an app")
		}
		switch st.Action {
		case config.ActionStart:
			app.Start()
		case config.ActionResume:
			app.Resume()
		default:
			app.Sleep()
		}
	case config.ActionPlatform:
		svc := t.platform[st.Target]
		if svc == nil {
			return mismatch(st, target, "an app")
		}
		state, err := platform.ParseLifecycleState(st.To)
		if err != nil {
			return err
		}
		svc.UpdateState(state)
	case config.ActionAppear, config.ActionDisappear:
		page, ok := target.(appearer)
		if !ok {
			return mismatch(st, target, "a page")
		}
		if st.Action == config.ActionAppear {
			page.Appear()
		} else {
			page.Disappear()
		}
	case config.ActionStageAppear, config.ActionStageDisappear:
		stage, ok := target.(lifecycle.StageSource)
		if !ok {
			return mismatch(st, target, "a stage")
		}
		if st.Action == config.ActionStageAppear {
			stage.RaiseStageAppearing()
		} else {
			stage.RaiseStageDisappearing()
		}
	case config.ActionDispose:
		d, ok := target.(disposer)
		if !ok {
			return mismatch(st, target, "a disposable node")
		}
		d.Dispose()
	case config.ActionForceDisappear:
		f, ok := target.(lifecycle.ForceDisappearer)
		if !ok {
			return mismatch(st, target, "a node that can be forced to disappear")
		}
		f.ForceDisappearing()
	case config.ActionFocusStage, config.ActionRemoveStage:
		stage, ok := target.(*views.Stage)
		if !ok {
			return mismatch(st, target, "a stage")
		}
		p := t.parents[st.Target]
		page, ok := t.nodes[p.parent].(*overlay.StagedPage)
		if !ok || p.slot != config.SlotStage {
			return fmt.Errorf("%s needs a stage stacked on a stagedpage, %q is not", st.Action, st.Target)
		}
		if st.Action == config.ActionFocusStage {
			page.SetCurrentStage(stage)
		} else {
			page.RemoveStage(stage)
			delete(t.parents, st.Target)
		}
	case config.ActionMove:
		dest := t.nodes[st.To]
		if dest == nil {
			return fmt.Errorf("unknown move destination %q", st.To)
		}
		if !accepts(dest, target, st.Slot) {
			return fmt.Errorf("%q has no %s slot", st.To, st.Slot)
		}
		t.detach(st.Target)
		return t.place(st.Target, st.To, st.Slot)
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// Run replays steps in order. before, if not nil, is called ahead of each
// step. Run stops at the first failing step.
func (t *Tree) Run(steps []config.Step, before func(i int, st config.Step)) error {
	for i, st := range steps {
		if before != nil {
			before(i, st)
		}
		if err := t.Apply(st); err != nil {
			return fmt.Errorf("step %d (%s %s): %w", i+1, st.Action, st.Target, err)
		}
	}
	return nil
}

func accepts(parent, child any, slot string) bool {
	switch slot {
	case config.SlotMain:
		_, ok := parent.(*views.App)
		return ok
	case config.SlotContent:
		_, ok := parent.(contentSlot)
		return ok
	case config.SlotContext:
		_, ok := parent.(contextSlot)
		return ok
	case config.SlotStage:
		_, isPage := parent.(*overlay.StagedPage)
		_, isStage := child.(*views.Stage)
		return isPage && isStage
	}
	return false
}

func mismatch(st config.Step, target any, want string) error {
	return fmt.Errorf("%s needs %s, %q is %T", st.Action, want, st.Target, target)
}
