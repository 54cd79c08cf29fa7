// Package editor is the navigation tree edit model: replace, remove and
// drag-and-drop reparenting over a nested item tree. Every operation returns
// a new tree and leaves its input untouched.
package editor

// MaxDepth is the deepest navigation tree the editor accepts, in levels.
const MaxDepth = 4

type Item struct {
	ID         string  `json:"id"`
	Name       string  `json:"name" binding:"required"`
	URL        string  `json:"url" binding:"required"`
	CategoryID *string `json:"categoryId,omitempty"`
	Items      []Item  `json:"items" binding:"dive"`
}

// Replace swaps the item with item.ID for item, at any depth.
func Replace(tree []Item, item Item) []Item {
	out := make([]Item, 0, len(tree))
	for _, it := range tree {
		switch {
		case it.ID == item.ID:
			out = append(out, item)
		case len(it.Items) > 0:
			it.Items = Replace(it.Items, item)
			out = append(out, it)
		default:
			out = append(out, it)
		}
	}
	return out
}

// Remove drops the item with id together with its whole subtree.
func Remove(tree []Item, id string) []Item {
	out := make([]Item, 0, len(tree))
	for _, it := range tree {
		if it.ID == id {
			continue
		}
		if len(it.Items) > 0 {
			it.Items = Remove(it.Items, id)
		}
		out = append(out, it)
	}
	return out
}

func Find(tree []Item, id string) (Item, bool) {
	for _, it := range tree {
		if it.ID == id {
			return it, true
		}
		if found, ok := Find(it.Items, id); ok {
			return found, true
		}
	}
	return Item{}, false
}

// Depth is the number of levels in tree. A flat list has depth 1 and an
// empty tree 0.
func Depth(tree []Item) int {
	depth := 0
	for _, it := range tree {
		if d := 1 + Depth(it.Items); d > depth {
			depth = d
		}
	}
	return depth
}

// Count returns the number of items at all levels.
func Count(tree []Item) int {
	n := len(tree)
	for _, it := range tree {
		n += Count(it.Items)
	}
	return n
}

func insertAfter(tree []Item, targetID string, item Item) ([]Item, bool) {
	out := make([]Item, 0, len(tree)+1)
	found := false
	for _, it := range tree {
		if !found && it.ID == targetID {
			out = append(out, it, item)
			found = true
			continue
		}
		if !found && len(it.Items) > 0 {
			it.Items, found = insertAfter(it.Items, targetID, item)
		}
		out = append(out, it)
	}
	return out, found
}

func appendChild(tree []Item, targetID string, item Item) ([]Item, bool) {
	out := make([]Item, 0, len(tree))
	found := false
	for _, it := range tree {
		if !found && it.ID == targetID {
			children := make([]Item, 0, len(it.Items)+1)
			children = append(children, it.Items...)
			it.Items = append(children, item)
			found = true
		} else if !found && len(it.Items) > 0 {
			it.Items, found = appendChild(it.Items, targetID, item)
		}
		out = append(out, it)
	}
	return out, found
}
