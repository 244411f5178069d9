package taxonomy

import "github.com/curiocollect/curio/internal/model"

// CategoryAccessors adapts model.Category to the generic selection
// algorithm. Child ids are plain subcategory ids.
func CategoryAccessors() Accessors[model.Category] {
	return Accessors[model.Category]{
		ParentID:   func(c model.Category) string { return c.ID },
		ParentName: func(c model.Category) string { return c.Name },
		ChildIDs:   func(c model.Category) []string { return c.SubcategoryIDs() },
		ChildNames: func(c model.Category) []string {
			subs := c.VisibleSubcategories()
			names := make([]string, len(subs))
			for i, sub := range subs {
				names[i] = sub.Name
			}
			return names
		},
	}
}

// HouseAccessors adapts model.House. Child ids are composite house|room keys
// because room ids repeat across houses.
func HouseAccessors() Accessors[model.House] {
	return Accessors[model.House]{
		ParentID:   func(h model.House) string { return h.ID },
		ParentName: func(h model.House) string { return h.Name },
		ChildIDs:   func(h model.House) []string { return h.RoomKeys() },
		ChildNames: func(h model.House) []string {
			rooms := h.VisibleRooms()
			names := make([]string, len(rooms))
			for i, room := range rooms {
				names[i] = room.Name
			}
			return names
		},
	}
}

// VisibleCategories filters a category list down to visible entries,
// preserving order.
func VisibleCategories(categories []model.Category) []model.Category {
	out := make([]model.Category, 0, len(categories))
	for _, cat := range categories {
		if cat.Visible {
			out = append(out, cat)
		}
	}
	return out
}

// VisibleHouses filters a house list down to visible entries, preserving
// order.
func VisibleHouses(houses []model.House) []model.House {
	out := make([]model.House, 0, len(houses))
	for _, house := range houses {
		if house.Visible {
			out = append(out, house)
		}
	}
	return out
}
