package taxonomy

// Option is one selectable row in a combined two-level dropdown: either a
// parent header or an indented child.
type Option struct {
	ID     string     `json:"id"`
	Label  string     `json:"label"`
	State  CheckState `json:"state"`
	Indent bool       `json:"indent,omitempty"`
}

// Flatten produces the combined option list for a two-level taxonomy: for
// each parent in order, one header entry followed by its visible children in
// order. It is a pure function of its inputs and safe to recompute on every
// render.
//
// A parent without visible children still emits its header; its state then
// derives purely from the explicit parent selection and is never
// indeterminate.
func Flatten[P any](acc Accessors[P], parents []P, sel Selection) []Option {
	var options []Option
	for _, parent := range parents {
		options = append(options, Option{
			ID:    acc.ParentID(parent),
			Label: acc.ParentName(parent),
			State: State(acc, parent, sel),
		})

		childIDs := acc.ChildIDs(parent)
		childNames := acc.ChildNames(parent)
		for i, childID := range childIDs {
			state := Unchecked
			if sel.Children[childID] {
				state = Checked
			}
			label := childID
			if i < len(childNames) {
				label = childNames[i]
			}
			options = append(options, Option{
				ID:     childID,
				Label:  label,
				State:  state,
				Indent: true,
			})
		}
	}
	return options
}

// NamedParent pairs an id with a display name and a visible child list. It
// is the minimal shape the CLI and API use to feed Flatten.
type NamedParent struct {
	ID       string
	Name     string
	ChildIDs []string
	Names    []string
}

// NamedAccessors adapts NamedParent to the generic algorithm.
func NamedAccessors() Accessors[NamedParent] {
	return Accessors[NamedParent]{
		ParentID:   func(p NamedParent) string { return p.ID },
		ParentName: func(p NamedParent) string { return p.Name },
		ChildIDs:   func(p NamedParent) []string { return p.ChildIDs },
		ChildNames: func(p NamedParent) []string { return p.Names },
	}
}
