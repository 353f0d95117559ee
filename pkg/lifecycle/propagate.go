package lifecycle

import "reflect"

// Propagate resolves node's lifecycle sources from parent. Call it whenever
// node's parent association changes, including when node is placed in a
// container's content slot.
//
// For each family node hosts: if parent is a source of that family, parent
// becomes node's source; otherwise, if parent hosts the family, node inherits
// parent's current source (a nil source detaches node); otherwise the family
// is left as it was. The same resolution is then applied to every child node
// exposes through Container, with node as their parent.
//
// A nil node or parent is a no-op.
func Propagate(node, parent any) {
	propagate(node, parent, make(map[any]struct{}))
}

func propagate(node, parent any, seen map[any]struct{}) {
	if isNil(node) || isNil(parent) {
		return
	}
	if reflect.TypeOf(node).Comparable() {
		if _, ok := seen[node]; ok {
			return
		}
		seen[node] = struct{}{}
	}

	if h, ok := node.(AppHost); ok {
		if src, ok := parent.(AppSource); ok {
			h.SetAppSource(src)
		} else if ph, ok := parent.(AppHost); ok {
			h.SetAppSource(ph.AppSource())
		}
	}

	if h, ok := node.(PageHost); ok {
		if src, ok := parent.(PageSource); ok {
			h.SetPageSource(src)
		} else if ph, ok := parent.(PageHost); ok {
			h.SetPageSource(ph.PageSource())
		}
	}

	if h, ok := node.(StageHost); ok {
		if src, ok := parent.(StageSource); ok {
			h.SetStageSource(src)
		} else if ph, ok := parent.(StageHost); ok {
			h.SetStageSource(ph.StageSource())
		}
	}

	if c, ok := node.(Container); ok {
		for _, child := range c.LifecycleChildren() {
			propagate(child, node, seen)
		}
	}
}
