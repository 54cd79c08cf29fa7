package editor

import "errors"

var (
	ErrItemNotFound      = errors.New("navigation item not found")
	ErrTargetNotFound    = errors.New("drop target not found")
	ErrDepthExceeded     = errors.New("navigation depth limit exceeded")
	ErrInvalidTransition = errors.New("invalid drag transition")
)

type State int

const (
	Idle State = iota
	Dragging
	Hovering
	Dropped
	Reverted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Hovering:
		return "hovering"
	case Dropped:
		return "dropped"
	case Reverted:
		return "reverted"
	}
	return "unknown"
}

// Zone tells where the dragged item lands relative to the hovered target.
type Zone int

const (
	AsSibling Zone = iota
	AsChild
)

func ParseZone(s string) (Zone, bool) {
	switch s {
	case "", "sibling":
		return AsSibling, true
	case "child":
		return AsChild, true
	}
	return AsSibling, false
}

// DragSession walks one drag gesture through
// Idle -> Dragging -> Hovering -> Dropped | Reverted.
// The committed tree only changes on a successful drop.
type DragSession struct {
	state    State
	tree     []Item
	maxDepth int
	dragged  string
	target   string
	zone     Zone
}

func NewDragSession(tree []Item, maxDepth int) *DragSession {
	if maxDepth <= 0 {
		maxDepth = MaxDepth
	}
	return &DragSession{tree: tree, maxDepth: maxDepth}
}

func (s *DragSession) State() State { return s.state }

func (s *DragSession) Tree() []Item { return s.tree }

// Start picks up the item with id.
func (s *DragSession) Start(id string) error {
	if s.state != Idle && s.state != Dropped && s.state != Reverted {
		return ErrInvalidTransition
	}
	if _, ok := Find(s.tree, id); !ok {
		return ErrItemNotFound
	}
	s.dragged, s.target, s.zone = id, "", AsSibling
	s.state = Dragging
	return nil
}

// Hover moves the pointer over targetID in zone. Moving between targets or
// zones stays in Hovering.
func (s *DragSession) Hover(targetID string, zone Zone) error {
	if s.state != Dragging && s.state != Hovering {
		return ErrInvalidTransition
	}
	s.target, s.zone = targetID, zone
	s.state = Hovering
	return nil
}

// Leave moves the pointer off any target.
func (s *DragSession) Leave() error {
	if s.state != Hovering {
		return ErrInvalidTransition
	}
	s.target = ""
	s.state = Dragging
	return nil
}

// Cancel abandons the gesture, keeping the tree.
func (s *DragSession) Cancel() {
	if s.state == Dragging || s.state == Hovering {
		s.state = Reverted
	}
}

// Drop releases the dragged item over the hovered target. Dropping onto
// itself is a no-op. When the result would be deeper than the limit, or the
// target lived inside the dragged subtree, the session reverts and the tree
// is unchanged.
func (s *DragSession) Drop() ([]Item, error) {
	switch s.state {
	case Dragging:
		s.state = Reverted
		return s.tree, nil
	case Hovering:
	default:
		return s.tree, ErrInvalidTransition
	}

	if s.target == s.dragged {
		s.state = Dropped
		return s.tree, nil
	}

	dragged, _ := Find(s.tree, s.dragged)
	without := Remove(s.tree, s.dragged)

	var next []Item
	var found bool
	if s.zone == AsChild {
		next, found = appendChild(without, s.target, dragged)
	} else {
		next, found = insertAfter(without, s.target, dragged)
	}
	if !found {
		s.state = Reverted
		return s.tree, ErrTargetNotFound
	}
	if Depth(next) > s.maxDepth {
		s.state = Reverted
		return s.tree, ErrDepthExceeded
	}

	s.tree = next
	s.state = Dropped
	return s.tree, nil
}

// Move runs a complete drag of itemID onto targetID.
func Move(tree []Item, itemID, targetID string, zone Zone, maxDepth int) ([]Item, error) {
	s := NewDragSession(tree, maxDepth)
	if err := s.Start(itemID); err != nil {
		return tree, err
	}
	if err := s.Hover(targetID, zone); err != nil {
		return tree, err
	}
	return s.Drop()
}
