package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/curiocollect/curio/internal/common"
	"github.com/curiocollect/curio/internal/model"
)

// GetCategories returns all categories with their subcategories, in display
// order. Hidden entries are included; filter surfaces drop them.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, icon, visible, position
		FROM categories
		ORDER BY position, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	index := make(map[string]int)
	for rows.Next() {
		var (
			cat     model.Category
			visible int
		)
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Icon, &visible, &cat.Position); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cat.Visible = visible != 0
		index[cat.ID] = len(categories)
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	subRows, err := s.db.QueryContext(ctx, `
		SELECT id, category_id, name, visible, position
		FROM subcategories
		ORDER BY position, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query subcategories: %w", err)
	}
	defer subRows.Close()

	for subRows.Next() {
		var (
			sub        model.Subcategory
			categoryID string
			visible    int
		)
		if err := subRows.Scan(&sub.ID, &categoryID, &sub.Name, &visible, &sub.Position); err != nil {
			return nil, fmt.Errorf("failed to scan subcategory: %w", err)
		}
		sub.Visible = visible != 0
		if i, ok := index[categoryID]; ok {
			categories[i].Subcategories = append(categories[i].Subcategories, sub)
		}
	}
	if err := subRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subcategories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// CreateCategory inserts a new category at the end of the display order.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE id = ?`, category.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check existing category: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: category %q", common.ErrDuplicateEntry, category.ID)
	}

	var maxPos int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) FROM categories`).Scan(&maxPos); err != nil {
		return fmt.Errorf("failed to read category positions: %w", err)
	}
	category.Position = maxPos + 1

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, icon, visible, position)
		VALUES (?, ?, ?, ?, ?)`,
		category.ID, category.Name, category.Icon,
		boolToInt(category.Visible), category.Position); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	slog.Info("created category", "id", category.ID, "name", category.Name)
	return nil
}

// UpdateCategory renames, reorders, or toggles visibility of a category.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, icon = ?, visible = ?, position = ?
		WHERE id = ?`,
		category.Name, category.Icon, boolToInt(category.Visible),
		category.Position, category.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// CreateSubcategory adds a subcategory under a category.
func (s *SQLiteStorage) CreateSubcategory(ctx context.Context, categoryID string, sub *model.Subcategory) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(categoryID, "categoryID"); err != nil {
		return err
	}
	if sub == nil || sub.ID == "" || sub.Name == "" {
		return fmt.Errorf("subcategory id and name cannot be empty")
	}

	var maxPos int
	if err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position), -1) FROM subcategories
		WHERE category_id = ?`, categoryID).Scan(&maxPos); err != nil {
		return fmt.Errorf("failed to read subcategory positions: %w", err)
	}
	sub.Position = maxPos + 1

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO subcategories (id, category_id, name, visible, position)
		VALUES (?, ?, ?, ?, ?)`,
		sub.ID, categoryID, sub.Name, boolToInt(sub.Visible), sub.Position); err != nil {
		return fmt.Errorf("failed to create subcategory: %w", err)
	}

	slog.Info("created subcategory", "id", sub.ID, "category", categoryID)
	return nil
}

// UpdateSubcategory renames, reorders, or toggles visibility of a subcategory.
func (s *SQLiteStorage) UpdateSubcategory(ctx context.Context, categoryID string, sub *model.Subcategory) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if sub == nil || sub.ID == "" {
		return fmt.Errorf("subcategory id cannot be empty")
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE subcategories SET name = ?, visible = ?, position = ?
		WHERE id = ? AND category_id = ?`,
		sub.Name, boolToInt(sub.Visible), sub.Position, sub.ID, categoryID)
	if err != nil {
		return fmt.Errorf("failed to update subcategory: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// DeleteSubcategory removes a subcategory, refusing while items still
// reference it.
func (s *SQLiteStorage) DeleteSubcategory(ctx context.Context, categoryID, subcategoryID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(subcategoryID, "subcategoryID"); err != nil {
		return err
	}

	linked, err := s.CountItemsBySubcategory(ctx, subcategoryID)
	if err != nil {
		return err
	}
	if linked > 0 {
		return fmt.Errorf("%w: %d items still use subcategory %q",
			common.ErrHasLinkedItems, linked, subcategoryID)
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM subcategories WHERE id = ? AND category_id = ?`,
		subcategoryID, categoryID)
	if err != nil {
		return fmt.Errorf("failed to delete subcategory: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}

	slog.Info("deleted subcategory", "id", subcategoryID, "category", categoryID)
	return nil
}
