package storage

import (
	"context"
	"fmt"

	"github.com/curiocollect/curio/internal/model"
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	return ctx.Err()
}

func validateString(value, name string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	return nil
}

func validateItem(item *model.Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}
	if item.ID == "" {
		return fmt.Errorf("item id cannot be empty")
	}
	if item.Title == "" {
		return fmt.Errorf("item title cannot be empty")
	}
	if item.Quantity < 0 {
		return fmt.Errorf("item quantity cannot be negative")
	}
	return nil
}

func validateCategory(category *model.Category) error {
	if category == nil {
		return fmt.Errorf("category cannot be nil")
	}
	if category.ID == "" {
		return fmt.Errorf("category id cannot be empty")
	}
	if category.Name == "" {
		return fmt.Errorf("category name cannot be empty")
	}
	return nil
}

func validateHouse(house *model.House) error {
	if house == nil {
		return fmt.Errorf("house cannot be nil")
	}
	if house.ID == "" {
		return fmt.Errorf("house id cannot be empty")
	}
	if house.Name == "" {
		return fmt.Errorf("house name cannot be empty")
	}
	return nil
}
