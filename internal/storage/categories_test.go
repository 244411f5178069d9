package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curiocollect/curio/internal/common"
	"github.com/curiocollect/curio/internal/model"
)

func TestCategoryCRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.CreateCategory(ctx, &model.Category{
		ID: "art", Name: "Art", Icon: "palette", Visible: true,
	}))
	require.NoError(t, store.CreateCategory(ctx, &model.Category{
		ID: "books", Name: "Books", Visible: true,
	}))

	require.NoError(t, store.CreateSubcategory(ctx, "art",
		&model.Subcategory{ID: "paintings", Name: "Paintings", Visible: true}))
	require.NoError(t, store.CreateSubcategory(ctx, "art",
		&model.Subcategory{ID: "sculpture", Name: "Sculpture", Visible: true}))

	categories, err := store.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)

	// Insertion order is display order.
	assert.Equal(t, "art", categories[0].ID)
	assert.Equal(t, 0, categories[0].Position)
	assert.Equal(t, "books", categories[1].ID)
	assert.Equal(t, 1, categories[1].Position)

	require.Len(t, categories[0].Subcategories, 2)
	assert.Equal(t, "paintings", categories[0].Subcategories[0].ID)
	assert.Equal(t, "sculpture", categories[0].Subcategories[1].ID)
	assert.Empty(t, categories[1].Subcategories)
}

func TestCreateCategoryDuplicate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.CreateCategory(ctx, &model.Category{
		ID: "art", Name: "Art", Visible: true,
	}))

	err := store.CreateCategory(ctx, &model.Category{ID: "art", Name: "Art again"})
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestUpdateCategoryVisibility(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	cat := &model.Category{ID: "art", Name: "Art", Visible: true}
	require.NoError(t, store.CreateCategory(ctx, cat))

	cat.Visible = false
	cat.Name = "Fine Art"
	require.NoError(t, store.UpdateCategory(ctx, cat))

	categories, err := store.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Fine Art", categories[0].Name)
	assert.False(t, categories[0].Visible)
}

func TestUpdateCategoryNotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	err := store.UpdateCategory(context.Background(),
		&model.Category{ID: "ghost", Name: "Ghost"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteSubcategoryGatedOnLinkedItems(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.CreateCategory(ctx, &model.Category{
		ID: "art", Name: "Art", Visible: true,
	}))
	require.NoError(t, store.CreateSubcategory(ctx, "art",
		&model.Subcategory{ID: "paintings", Name: "Paintings", Visible: true}))

	require.NoError(t, store.CreateItem(ctx, &model.Item{
		ID: "mona", Kind: model.KindDecor, Title: "Mona", Quantity: 1,
		CategoryID: "art", SubcategoryID: "paintings",
	}))

	err := store.DeleteSubcategory(ctx, "art", "paintings")
	assert.ErrorIs(t, err, common.ErrHasLinkedItems)

	// Soft-deleting the item unblocks the subcategory.
	require.NoError(t, store.DeleteItem(ctx, "mona"))
	assert.NoError(t, store.DeleteSubcategory(ctx, "art", "paintings"))
}
