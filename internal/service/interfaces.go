// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/curiocollect/curio/internal/model"
)

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Item operations. Every update bumps the version and records the
	// prior snapshot; deletes are soft.
	SaveItems(ctx context.Context, items []model.Item) (int, error)
	CreateItem(ctx context.Context, item *model.Item) error
	GetItem(ctx context.Context, id string) (*model.Item, error)
	GetItems(ctx context.Context) ([]model.Item, error)
	UpdateItem(ctx context.Context, item *model.Item) error
	DeleteItem(ctx context.Context, id string) error
	GetItemHistory(ctx context.Context, id string) ([]model.Item, error)
	CountItemsByRoom(ctx context.Context, houseID, roomID string) (int, error)
	CountItemsBySubcategory(ctx context.Context, subcategoryID string) (int, error)

	// Category taxonomy. Position in the returned slice is display order.
	GetCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, category *model.Category) error
	CreateSubcategory(ctx context.Context, categoryID string, sub *model.Subcategory) error
	UpdateSubcategory(ctx context.Context, categoryID string, sub *model.Subcategory) error
	DeleteSubcategory(ctx context.Context, categoryID, subcategoryID string) error

	// House taxonomy.
	GetHouses(ctx context.Context) ([]model.House, error)
	GetHouse(ctx context.Context, id string) (*model.House, error)
	CreateHouse(ctx context.Context, house *model.House) error
	UpdateHouse(ctx context.Context, house *model.House) error
	GetHouseHistory(ctx context.Context, id string) ([]model.House, error)
	CreateRoom(ctx context.Context, houseID string, room *model.Room) error
	UpdateRoom(ctx context.Context, houseID string, room *model.Room) error
	DeleteRoom(ctx context.Context, houseID, roomID string) error

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}
