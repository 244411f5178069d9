package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curiocollect/curio/internal/common"
	"github.com/curiocollect/curio/internal/model"
)

func TestHouseCRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	house := &model.House{
		ID: "main-house", Code: "main", Name: "Main House",
		City: "Lisbon", Country: "PT", Visible: true,
	}
	require.NoError(t, store.CreateHouse(ctx, house))
	assert.Equal(t, "MAIN", house.Code, "house codes are uppercased")
	assert.Equal(t, 1, house.Version)

	require.NoError(t, store.CreateRoom(ctx, "main-house",
		&model.Room{ID: "kitchen", Name: "Kitchen", Floor: 0, Visible: true}))
	require.NoError(t, store.CreateRoom(ctx, "main-house",
		&model.Room{ID: "attic", Name: "Attic", Floor: 2, Visible: true}))

	got, err := store.GetHouse(ctx, "main-house")
	require.NoError(t, err)
	require.Len(t, got.Rooms, 2)
	assert.Equal(t, "MAIN-KITCHEN", got.Rooms[0].Code, "room code derives from house code")
}

func TestUpdateHousePushesHistory(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	house := &model.House{ID: "h1", Code: "MAIN", Name: "Main", Visible: true}
	require.NoError(t, store.CreateHouse(ctx, house))

	house.Name = "Main House"
	require.NoError(t, store.UpdateHouse(ctx, house))
	assert.Equal(t, 2, house.Version)

	house.City = "Porto"
	require.NoError(t, store.UpdateHouse(ctx, house))
	assert.Equal(t, 3, house.Version)

	history, err := store.GetHouseHistory(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].Version)
	assert.Equal(t, "Main House", history[0].Name)
	assert.Equal(t, 1, history[1].Version)
	assert.Equal(t, "Main", history[1].Name)
}

func TestRoomEditsPushHouseHistory(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.CreateHouse(ctx, &model.House{
		ID: "h1", Code: "MAIN", Name: "Main", Visible: true,
	}))
	require.NoError(t, store.CreateRoom(ctx, "h1",
		&model.Room{ID: "study", Name: "Study", Visible: true}))

	require.NoError(t, store.UpdateRoom(ctx, "h1",
		&model.Room{ID: "study", Name: "Library", Visible: true}))

	history, err := store.GetHouseHistory(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Newest snapshot: the house as it stood before the rename,
	// rooms included.
	require.Len(t, history[0].Rooms, 1)
	assert.Equal(t, "Study", history[0].Rooms[0].Name)

	// Oldest snapshot predates the room.
	assert.Empty(t, history[1].Rooms)

	house, err := store.GetHouse(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, 3, house.Version, "room edits bump the house version")
	require.Len(t, house.Rooms, 1)
	assert.Equal(t, "Library", house.Rooms[0].Name)

	// House edits also capture the current room set.
	house.City = "Lisbon"
	require.NoError(t, store.UpdateHouse(ctx, house))

	history, err = store.GetHouseHistory(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	require.Len(t, history[0].Rooms, 1)
	assert.Equal(t, "Library", history[0].Rooms[0].Name)
}

func TestRoomIDsScopedToHouse(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.CreateHouse(ctx, &model.House{
		ID: "main-house", Code: "MAIN", Name: "Main", Visible: true,
	}))
	require.NoError(t, store.CreateHouse(ctx, &model.House{
		ID: "summer-house", Code: "SUMM", Name: "Summer", Visible: true,
	}))

	// The same room id can exist in both houses.
	require.NoError(t, store.CreateRoom(ctx, "main-house",
		&model.Room{ID: "living-room", Name: "Living Room", Visible: true}))
	require.NoError(t, store.CreateRoom(ctx, "summer-house",
		&model.Room{ID: "living-room", Name: "Living Room", Visible: true}))

	houses, err := store.GetHouses(ctx)
	require.NoError(t, err)
	require.Len(t, houses, 2)
	assert.Len(t, houses[0].Rooms, 1)
	assert.Len(t, houses[1].Rooms, 1)
}

func TestDeleteRoomGatedOnLinkedItems(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.CreateHouse(ctx, &model.House{
		ID: "main-house", Code: "MAIN", Name: "Main", Visible: true,
	}))
	require.NoError(t, store.CreateRoom(ctx, "main-house",
		&model.Room{ID: "kitchen", Name: "Kitchen", Visible: true}))

	require.NoError(t, store.CreateItem(ctx, &model.Item{
		ID: "kettle", Kind: model.KindDecor, Title: "Copper Kettle", Quantity: 1,
		HouseID: "main-house", RoomID: "kitchen",
	}))

	err := store.DeleteRoom(ctx, "main-house", "kitchen")
	assert.ErrorIs(t, err, common.ErrHasLinkedItems)

	require.NoError(t, store.DeleteItem(ctx, "kettle"))
	require.NoError(t, store.DeleteRoom(ctx, "main-house", "kitchen"))

	// Soft delete: room stays but is flagged.
	got, err := store.GetHouse(ctx, "main-house")
	require.NoError(t, err)
	require.Len(t, got.Rooms, 1)
	assert.True(t, got.Rooms[0].Deleted)
	assert.Empty(t, got.VisibleRooms())
}

func TestDeleteRoomNotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	err := store.DeleteRoom(context.Background(), "main-house", "ghost")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
