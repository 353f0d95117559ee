package testing

import (
	"fmt"
	"reflect"

	"github.com/go-drift/lifecycle/pkg/lifecycle"
)

// Finder locates nodes in a lifecycle tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root any) []any
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []any
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() any {
	if len(r.nodes) == 0 {
		desc := "unknown"
		if r.finder != nil {
			desc = r.finder.Description()
		}
		panic(fmt.Sprintf("Finder found no nodes: %s", desc))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() any {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []any {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

// --- Concrete finders ---

type typeFinder struct {
	nodeType reflect.Type
}

func (f *typeFinder) Evaluate(root any) []any {
	return collectMatches(root, func(n any) bool {
		return reflect.TypeOf(n) == f.nodeType
	})
}

func (f *typeFinder) Description() string {
	return fmt.Sprintf("ByType(%s)", f.nodeType)
}

// ByType returns a finder that matches nodes of exactly type T.
func ByType[T any]() Finder {
	return &typeFinder{nodeType: reflect.TypeFor[T]()}
}

type nameFinder struct {
	name string
}

func (f *nameFinder) Evaluate(root any) []any {
	return collectMatches(root, func(n any) bool {
		named, ok := n.(interface{ Name() string })
		return ok && named.Name() == f.name
	})
}

func (f *nameFinder) Description() string {
	return fmt.Sprintf("ByName(%q)", f.name)
}

// ByName returns a finder that matches nodes whose Name() is name.
func ByName(name string) Finder {
	return &nameFinder{name: name}
}

type predicateFinder struct {
	fn   func(any) bool
	desc string
}

func (f *predicateFinder) Evaluate(root any) []any {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate returns a finder that matches nodes satisfying fn.
func ByPredicate(fn func(any) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// CleaningUp matches nodes that have started cleaning up.
func CleaningUp() Finder {
	return &predicateFinder{
		fn: func(n any) bool {
			c, ok := n.(lifecycle.Cleaner)
			return ok && c.IsCleaningUp()
		},
		desc: "CleaningUp()",
	}
}

type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root any) []any {
	var results []any
	seen := make(map[any]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		for _, child := range lifecycleChildren(ancestor) {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match] {
					seen[match] = true
					results = append(results, match)
				}
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches nodes satisfying 'matching'
// that are descendants of nodes matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

func lifecycleChildren(n any) []any {
	if c, ok := n.(lifecycle.Container); ok {
		return c.LifecycleChildren()
	}
	return nil
}

// collectMatches performs depth-first pre-order traversal, collecting
// nodes that satisfy the predicate.
func collectMatches(root any, predicate func(any) bool) []any {
	var results []any
	walkTree(root, func(n any) {
		if predicate(n) {
			results = append(results, n)
		}
	})
	return results
}

// walkTree visits root and its lifecycle children depth-first, each node
// once.
func walkTree(root any, visit func(any)) {
	seen := make(map[any]bool)
	var walk func(n any)
	walk = func(n any) {
		if n == nil {
			return
		}
		if reflect.TypeOf(n).Comparable() {
			if seen[n] {
				return
			}
			seen[n] = true
		}
		visit(n)
		for _, child := range lifecycleChildren(n) {
			walk(child)
		}
	}
	walk(root)
}
