// Package config loads and validates lctrace scenario files.
//
// A scenario declares the nodes of a lifecycle tree and the steps to replay
// against it. YAML (.yaml, .yml) and TOML (.toml) are accepted:
//
//	name: checkout
//	nodes:
//	  - {id: app, kind: app}
//	  - {id: cart, kind: page, parent: app}
//	  - {id: list, kind: view, parent: cart}
//	  - {id: list-vm, kind: viewmodel, parent: list, slot: context}
//	steps:
//	  - {action: start, target: app}
//	  - {action: appear, target: cart}
//	  - {action: disappear, target: cart}
//
// A stagedpage additionally has a stage slot holding a stack of stages,
// driven by the focus-stage and remove-stage actions.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	lcerrors "github.com/go-drift/lifecycle/pkg/errors"
	"github.com/go-drift/lifecycle/pkg/platform"
)

// Node kinds.
const (
	KindApp        = "app"
	KindPage       = "page"
	KindStagedPage = "stagedpage"
	KindStage      = "stage"
	KindView       = "view"
	KindViewModel  = "viewmodel"
)

// Parent slots.
const (
	SlotMain    = "main"
	SlotContent = "content"
	SlotContext = "context"
	SlotStage   = "stage"
)

// Step actions.
const (
	ActionStart          = "start"
	ActionResume         = "resume"
	ActionSleep          = "sleep"
	ActionPlatform       = "platform"
	ActionAppear         = "appear"
	ActionDisappear      = "disappear"
	ActionStageAppear    = "stage-appear"
	ActionStageDisappear = "stage-disappear"
	ActionDispose        = "dispose"
	ActionForceDisappear = "force-disappear"
	ActionMove           = "move"
	ActionFocusStage     = "focus-stage"
	ActionRemoveStage    = "remove-stage"
)

// Scenario is a parsed scenario file.
type Scenario struct {
	Name  string `yaml:"name,omitempty" toml:"name,omitempty"`
	Nodes []Node `yaml:"nodes" toml:"nodes"`
	Steps []Step `yaml:"steps" toml:"steps"`
}

// Node declares one node of the tree. Parent is empty for roots; Slot
// defaults to main under an app, stage for a stage under a stagedpage and
// content elsewhere.
type Node struct {
	ID     string `yaml:"id" toml:"id"`
	Kind   string `yaml:"kind" toml:"kind"`
	Parent string `yaml:"parent,omitempty" toml:"parent,omitempty"`
	Slot   string `yaml:"slot,omitempty" toml:"slot,omitempty"`
}

// Step is one action replayed against the tree. To names the new parent for
// move and the platform state for platform; Slot applies to move.
type Step struct {
	Action string `yaml:"action" toml:"action"`
	Target string `yaml:"target" toml:"target"`
	To     string `yaml:"to,omitempty" toml:"to,omitempty"`
	Slot   string `yaml:"slot,omitempty" toml:"slot,omitempty"`
}

// Resolved is a validated scenario with defaults applied.
type Resolved struct {
	Path       string
	ModulePath string
	Scenario   *Scenario
}

// Load reads and parses a scenario file without validating it.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	var s Scenario
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, configError("config.Load", "failed to parse %s: %v", filepath.Base(path), err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &s); err != nil {
			return nil, configError("config.Load", "failed to parse %s: %v", filepath.Base(path), err)
		}
	default:
		return nil, configError("config.Load", "unsupported scenario format %q (use .yaml, .yml or .toml)", ext)
	}
	return &s, nil
}

// Resolve loads the scenario at path, validates it and fills in defaults.
// An unnamed scenario is named after the module enclosing the file, or the
// file itself outside a module.
func Resolve(path string) (*Resolved, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}

	s.Name = strings.TrimSpace(s.Name)
	var modPath string
	if root, err := FindModuleRoot(filepath.Dir(path)); err == nil {
		modPath, _ = modulePath(root)
	}
	if s.Name == "" {
		s.Name = defaultName(modPath, path)
	}
	s.applyDefaults()

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Resolved{Path: path, ModulePath: modPath, Scenario: s}, nil
}

// FindModuleRoot walks up from dir to find go.mod.
func FindModuleRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultName(modulePath, file string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	if modulePath != "" {
		modName, _, ok := module.SplitPathVersion(modulePath)
		if ok {
			parts := strings.Split(modName, "/")
			base = parts[len(parts)-1] + "/" + base
		}
	}
	if base == "" {
		return "scenario"
	}
	return base
}

func (s *Scenario) applyDefaults() {
	kinds := make(map[string]string, len(s.Nodes))
	for i := range s.Nodes {
		n := &s.Nodes[i]
		n.ID = strings.TrimSpace(n.ID)
		n.Kind = strings.ToLower(strings.TrimSpace(n.Kind))
		kinds[n.ID] = n.Kind
		if n.Parent != "" && n.Slot == "" {
			n.Slot = defaultSlot(kinds[n.Parent], n.Kind)
		}
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		st.Action = strings.ToLower(strings.TrimSpace(st.Action))
		if st.Action == ActionMove && st.Slot == "" {
			st.Slot = defaultSlot(kinds[st.To], kinds[st.Target])
		}
	}
}

func defaultSlot(parentKind, kind string) string {
	switch {
	case parentKind == KindApp:
		return SlotMain
	case parentKind == KindStagedPage && kind == KindStage:
		return SlotStage
	}
	return SlotContent
}

// Validate checks node references, kinds, slots and step targets.
func (s *Scenario) Validate() error {
	var errs []error
	kinds := make(map[string]string, len(s.Nodes))

	for i, n := range s.Nodes {
		where := fmt.Sprintf("nodes[%d]", i)
		if n.ID == "" {
			errs = append(errs, fmt.Errorf("%s: id is required", where))
			continue
		}
		if _, dup := kinds[n.ID]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate id %q", where, n.ID))
			continue
		}
		if !validKind(n.Kind) {
			errs = append(errs, fmt.Errorf("%s: unknown kind %q", where, n.Kind))
		}
		if n.Parent != "" {
			parentKind, ok := kinds[n.Parent]
			if !ok {
				errs = append(errs, fmt.Errorf("%s: parent %q must be declared before %q", where, n.Parent, n.ID))
			} else if err := checkSlot(parentKind, n.Kind, n.Slot); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", where, err))
			}
		}
		kinds[n.ID] = n.Kind
	}

	for i, st := range s.Steps {
		if err := checkStep(st, kinds); err != nil {
			errs = append(errs, fmt.Errorf("steps[%d]: %w", i, err))
		}
	}

	if len(errs) > 0 {
		return &lcerrors.LifecycleError{
			Op:   "config.Validate",
			Kind: lcerrors.KindConfig,
			Err:  errors.Join(errs...),
		}
	}
	return nil
}

func validKind(kind string) bool {
	switch kind {
	case KindApp, KindPage, KindStagedPage, KindStage, KindView, KindViewModel:
		return true
	}
	return false
}

func checkSlot(parentKind, kind, slot string) error {
	switch parentKind {
	case KindApp:
		if slot != SlotMain {
			return fmt.Errorf("an app only has the %q slot, got %q", SlotMain, slot)
		}
	case KindStagedPage:
		switch slot {
		case SlotContent, SlotContext:
		case SlotStage:
			if kind != KindStage {
				return fmt.Errorf("the %q slot only holds stages, got a %s", SlotStage, kind)
			}
		default:
			return fmt.Errorf("slot must be %q, %q or %q, got %q", SlotContent, SlotContext, SlotStage, slot)
		}
	case KindPage, KindStage, KindView:
		if slot != SlotContent && slot != SlotContext {
			return fmt.Errorf("slot must be %q or %q, got %q", SlotContent, SlotContext, slot)
		}
	default:
		return fmt.Errorf("a %s cannot have children", parentKind)
	}
	return nil
}

func checkStep(st Step, kinds map[string]string) error {
	kind, ok := kinds[st.Target]
	if !ok {
		return fmt.Errorf("unknown target %q", st.Target)
	}
	want := func(allowed ...string) error {
		for _, k := range allowed {
			if kind == k {
				return nil
			}
		}
		return fmt.Errorf("%s needs a %s target, %q is a %s", st.Action, strings.Join(allowed, " or "), st.Target, kind)
	}

	switch st.Action {
	case ActionStart, ActionResume, ActionSleep:
		return want(KindApp)
	case ActionPlatform:
		if err := want(KindApp); err != nil {
			return err
		}
		_, err := platform.ParseLifecycleState(st.To)
		return err
	case ActionAppear, ActionDisappear:
		return want(KindPage, KindStagedPage)
	case ActionStageAppear, ActionStageDisappear, ActionFocusStage, ActionRemoveStage:
		return want(KindStage)
	case ActionDispose:
		return want(KindPage, KindStagedPage, KindStage, KindView, KindViewModel)
	case ActionForceDisappear:
		return want(KindPage, KindStagedPage, KindStage, KindView)
	case ActionMove:
		if err := want(KindPage, KindStagedPage, KindStage, KindView, KindViewModel); err != nil {
			return err
		}
		parentKind, ok := kinds[st.To]
		if !ok {
			return fmt.Errorf("unknown move destination %q", st.To)
		}
		return checkSlot(parentKind, kind, st.Slot)
	case "":
		return fmt.Errorf("action is required")
	}
	return fmt.Errorf("unknown action %q", st.Action)
}

func configError(op, format string, args ...any) error {
	return &lcerrors.LifecycleError{
		Op:   op,
		Kind: lcerrors.KindConfig,
		Err:  fmt.Errorf(format, args...),
	}
}
