package model

// Category represents a top-level classification for inventory items.
// Position in the stored list is the display and sort order.
type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Icon          string        `json:"icon,omitempty"`
	Subcategories []Subcategory `json:"subcategories,omitempty"`
	Position      int           `json:"position"`
	Visible       bool          `json:"visible"`
}

// Subcategory is a second-level classification owned by exactly one Category.
type Subcategory struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	Visible  bool   `json:"visible"`
}

// VisibleSubcategories returns the subcategories shown in filter UIs,
// preserving their stored order.
func (c *Category) VisibleSubcategories() []Subcategory {
	out := make([]Subcategory, 0, len(c.Subcategories))
	for _, sub := range c.Subcategories {
		if sub.Visible {
			out = append(out, sub)
		}
	}
	return out
}

// SubcategoryIDs returns the ids of all visible subcategories.
func (c *Category) SubcategoryIDs() []string {
	ids := make([]string, 0, len(c.Subcategories))
	for _, sub := range c.Subcategories {
		if sub.Visible {
			ids = append(ids, sub.ID)
		}
	}
	return ids
}
