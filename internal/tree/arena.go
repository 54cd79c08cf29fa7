// Package tree stores self-referencing records (categories, navigation
// items) as an arena of nodes keyed by id. Nodes reference each other by id
// only, so traversal never follows pointer cycles.
package tree

import "errors"

var ErrCycle = errors.New("tree: cycle detected")

type Node[T any] struct {
	ID       string
	ParentID string
	ChildIDs []string
	Value    T
}

type Arena[T any] struct {
	nodes map[string]*Node[T]
	roots []string
}

// Build indexes items by id. Input order is kept for siblings. Items whose
// parent is absent from items become roots.
func Build[T any](items []T, id func(T) string, parent func(T) string) *Arena[T] {
	a := &Arena[T]{nodes: make(map[string]*Node[T], len(items))}
	order := make([]string, 0, len(items))
	for _, it := range items {
		nid := id(it)
		if _, dup := a.nodes[nid]; dup {
			continue
		}
		a.nodes[nid] = &Node[T]{ID: nid, ParentID: parent(it), Value: it}
		order = append(order, nid)
	}
	for _, nid := range order {
		n := a.nodes[nid]
		if p, ok := a.nodes[n.ParentID]; ok && n.ParentID != nid {
			p.ChildIDs = append(p.ChildIDs, nid)
			continue
		}
		a.roots = append(a.roots, nid)
	}
	return a
}

func (a *Arena[T]) Len() int { return len(a.nodes) }

func (a *Arena[T]) Get(id string) (*Node[T], bool) {
	n, ok := a.nodes[id]
	return n, ok
}

func (a *Arena[T]) Roots() []string { return a.roots }

// Ancestors returns the chain of ancestors of id ordered root first,
// excluding id itself. It fails with ErrCycle instead of looping when the
// parent links revisit a node.
func (a *Arena[T]) Ancestors(id string) ([]T, error) {
	n, ok := a.nodes[id]
	if !ok {
		return nil, nil
	}
	seen := map[string]bool{id: true}
	var chain []T
	for {
		p, ok := a.nodes[n.ParentID]
		if !ok {
			break
		}
		if seen[p.ID] {
			return nil, ErrCycle
		}
		seen[p.ID] = true
		chain = append(chain, p.Value)
		n = p
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Height is the node depth measured from the bottom: leaves are 0, a node
// is 1 + the height of its tallest child.
func (a *Arena[T]) Height(id string) int {
	return a.height(id, map[string]bool{})
}

func (a *Arena[T]) height(id string, onPath map[string]bool) int {
	n, ok := a.nodes[id]
	if !ok || onPath[id] {
		return 0
	}
	onPath[id] = true
	defer delete(onPath, id)

	h := 0
	for _, c := range n.ChildIDs {
		if onPath[c] {
			continue
		}
		if ch := 1 + a.height(c, onPath); ch > h {
			h = ch
		}
	}
	return h
}

// Levels is the number of levels of the whole forest; an empty arena has 0.
func (a *Arena[T]) Levels() int {
	levels := 0
	for _, r := range a.roots {
		if l := 1 + a.Height(r); l > levels {
			levels = l
		}
	}
	return levels
}

// IsDescendant reports whether candidate sits below id.
func (a *Arena[T]) IsDescendant(id, candidate string) bool {
	n, ok := a.nodes[candidate]
	seen := map[string]bool{}
	for ok && !seen[n.ID] {
		seen[n.ID] = true
		if n.ParentID == id {
			return true
		}
		n, ok = a.nodes[n.ParentID]
	}
	return false
}

// Nest materializes the subtree under each root into nested values up to
// maxLevels levels (0 means unlimited). attach receives a node's value and
// its already nested children.
func Nest[T any](a *Arena[T], maxLevels int, attach func(T, []T) T) []T {
	return nestIDs(a, a.roots, maxLevels, attach)
}

// NestNode is Nest for the subtree rooted at id.
func NestNode[T any](a *Arena[T], id string, maxLevels int, attach func(T, []T) T) (T, bool) {
	if _, ok := a.nodes[id]; !ok {
		var zero T
		return zero, false
	}
	return nestIDs(a, []string{id}, maxLevels, attach)[0], true
}

func nestIDs[T any](a *Arena[T], ids []string, maxLevels int, attach func(T, []T) T) []T {
	onPath := map[string]bool{}
	var walk func(ids []string, level int) []T
	walk = func(ids []string, level int) []T {
		out := make([]T, 0, len(ids))
		for _, id := range ids {
			if onPath[id] {
				continue
			}
			n := a.nodes[id]
			var children []T
			if len(n.ChildIDs) > 0 && (maxLevels == 0 || level < maxLevels) {
				onPath[id] = true
				children = walk(n.ChildIDs, level+1)
				delete(onPath, id)
			}
			out = append(out, attach(n.Value, children))
		}
		return out
	}
	return walk(ids, 1)
}
