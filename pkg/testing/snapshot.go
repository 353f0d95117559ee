package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-drift/lifecycle/pkg/lifecycle"
)

// UpdateSnapshotsEnv names the environment variable that switches
// MatchesFile to rewriting golden files.
const UpdateSnapshotsEnv = "LCTEST_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the lifecycle tree with each node's resolved sources,
// plus the hook calls recorded so far.
type Snapshot struct {
	Tree   *TreeNode `json:"tree"`
	Events []string  `json:"events,omitempty"`
}

// TreeNode represents a node in the serialized lifecycle tree.
type TreeNode struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Name       string      `json:"name,omitempty"`
	App        string      `json:"app,omitempty"`
	Page       string      `json:"page,omitempty"`
	Stage      string      `json:"stage,omitempty"`
	CleaningUp bool        `json:"cleaningUp,omitempty"`
	Children   []*TreeNode `json:"children,omitempty"`
}

// CaptureSnapshot captures the mounted tree. rec may be nil.
func (t *Tester) CaptureSnapshot(rec *Recorder) *Snapshot {
	return CaptureSnapshot(t.root, rec)
}

// CaptureSnapshot captures the tree under root. rec may be nil.
func CaptureSnapshot(root any, rec *Recorder) *Snapshot {
	snap := &Snapshot{}
	if root != nil {
		snap.Tree = captureNode(root, &typeCounter{}, make(map[any]bool))
	}
	if rec != nil {
		for _, e := range rec.Entries() {
			snap.Events = append(snap.Events, e.String())
		}
	}
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When
// LCTEST_UPDATE_SNAPSHOTS=1 is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between this snapshot and other. Returns
// empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return unifiedDiff(string(b), string(a))
}

// --- Internal ---

// typeCounter assigns stable IDs like "ContentView#0", "ContentView#1".
type typeCounter struct {
	counts map[string]int
}

func (c *typeCounter) next(typeName string) string {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	n := c.counts[typeName]
	c.counts[typeName] = n + 1
	return fmt.Sprintf("%s#%d", typeName, n)
}

func captureNode(n any, counter *typeCounter, seen map[any]bool) *TreeNode {
	typeName := nodeTypeName(n)
	node := &TreeNode{ID: counter.next(typeName), Type: typeName}
	if named, ok := n.(interface{ Name() string }); ok {
		node.Name = named.Name()
	}
	if h, ok := n.(lifecycle.AppHost); ok {
		node.App = describe(h.AppSource())
	}
	if h, ok := n.(lifecycle.PageHost); ok {
		node.Page = describe(h.PageSource())
	}
	if h, ok := n.(lifecycle.StageHost); ok {
		node.Stage = describe(h.StageSource())
	}
	if c, ok := n.(lifecycle.Cleaner); ok {
		node.CleaningUp = c.IsCleaningUp()
	}

	if reflect.TypeOf(n).Comparable() {
		if seen[n] {
			return node
		}
		seen[n] = true
	}
	for _, child := range lifecycleChildren(n) {
		node.Children = append(node.Children, captureNode(child, counter, seen))
	}
	return node
}

func describe(src any) string {
	if src == nil {
		return ""
	}
	return fmt.Sprint(src)
}

func nodeTypeName(n any) string {
	t := reflect.TypeOf(n)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if pkg := t.PkgPath(); pkg != "" {
		name = pkg[strings.LastIndex(pkg, "/")+1:] + "." + name
	}
	return name
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unifiedDiff produces a simple line-oriented diff.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	for i := 0; i < max(len(expectedLines), len(actualLines)); i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e != a {
			if i < len(expectedLines) {
				fmt.Fprintf(&buf, "-%s\n", e)
			}
			if i < len(actualLines) {
				fmt.Fprintf(&buf, "+%s\n", a)
			}
		}
	}

	return buf.String()
}
