package tui

import "github.com/curiocollect/curio/internal/model"

// Data loading messages.
type itemsLoadedMsg struct {
	err   error
	items []model.Item
}

type taxonomyLoadedMsg struct {
	err        error
	categories []model.Category
	houses     []model.House
}
