// Package taxonomy implements selection state and option flattening for the
// two-level classification trees (category/subcategory and house/room).
//
// The same tri-state algorithm drives both filter surfaces; it is written
// once against accessor functions so the two call sites cannot drift.
package taxonomy

// CheckState is the tri-state value of a parent checkbox.
type CheckState int

const (
	// Unchecked means neither the parent nor any child is selected.
	Unchecked CheckState = iota
	// Indeterminate means some but not all children are selected.
	Indeterminate
	// Checked means the parent is explicitly selected or all visible
	// children are selected.
	Checked
)

func (s CheckState) String() string {
	switch s {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unchecked"
	}
}

// Accessors adapts a concrete parent/child pair to the generic selection
// algorithm. ChildIDs must return only visible children, in display order,
// using the same keys stored in the child selection set (composite keys for
// rooms, plain ids for subcategories).
type Accessors[P any] struct {
	ParentID   func(P) string
	ParentName func(P) string
	ChildIDs   func(P) []string
	ChildNames func(P) []string
}

// Selection holds the selected parent and child id sets for one taxonomy.
// Parent state is always derived from these sets, never stored.
type Selection struct {
	Parents  map[string]bool
	Children map[string]bool
}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return Selection{
		Parents:  make(map[string]bool),
		Children: make(map[string]bool),
	}
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return len(s.Parents) == 0 && len(s.Children) == 0
}

// State computes the checkbox state for one parent.
//
// A parent with no visible children can never become checked through its
// children; it is checked only when explicitly selected.
func State[P any](acc Accessors[P], parent P, sel Selection) CheckState {
	if sel.Parents[acc.ParentID(parent)] {
		return Checked
	}

	childIDs := acc.ChildIDs(parent)
	selected := 0
	for _, id := range childIDs {
		if sel.Children[id] {
			selected++
		}
	}

	switch {
	case len(childIDs) > 0 && selected == len(childIDs):
		return Checked
	case selected > 0:
		return Indeterminate
	default:
		return Unchecked
	}
}

// ToggleParent flips a parent between checked and unchecked.
//
// Checking adds the parent id and all of its child ids to the selection;
// children selected under other parents are untouched. Unchecking removes
// the parent id and only that parent's child ids.
func ToggleParent[P any](acc Accessors[P], parent P, sel Selection) {
	id := acc.ParentID(parent)
	if State(acc, parent, sel) == Checked {
		delete(sel.Parents, id)
		for _, childID := range acc.ChildIDs(parent) {
			delete(sel.Children, childID)
		}
		return
	}

	sel.Parents[id] = true
	for _, childID := range acc.ChildIDs(parent) {
		sel.Children[childID] = true
	}
}

// ToggleChild flips a single child selection. The parent's explicit selection
// is dropped so its state is re-derived from the children.
func ToggleChild[P any](acc Accessors[P], parent P, childID string, sel Selection) {
	delete(sel.Parents, acc.ParentID(parent))
	if sel.Children[childID] {
		delete(sel.Children, childID)
	} else {
		sel.Children[childID] = true
	}
}
