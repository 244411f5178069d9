package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/curiocollect/curio/internal/common"
	"github.com/curiocollect/curio/internal/model"
)

const itemColumns = `id, kind, title, description, notes, quantity, year, creator,
	category_id, subcategory_id, house_id, room_id, condition, valuation,
	currency, attrs, location_sort, deleted, version, created_at, updated_at`

// GetItems returns every item, including soft-deleted ones; the query layer
// decides what each view shows.
func (s *SQLiteStorage) GetItems(ctx context.Context) ([]model.Item, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + itemColumns + ` FROM items ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	slog.Debug("retrieved items", "count", len(items))
	return items, nil
}

// GetItem returns a single item by id.
func (s *SQLiteStorage) GetItem(ctx context.Context, id string) (*model.Item, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`
	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// CreateItem inserts a new item at version 1.
func (s *SQLiteStorage) CreateItem(ctx context.Context, item *model.Item) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateItem(item); err != nil {
		return err
	}

	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	item.Version = 1

	attrs, err := encodeAttrs(item.Attrs)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO items (`+itemColumns+`, hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, string(item.Kind), item.Title, item.Description, item.Notes,
		item.Quantity, item.Year, item.Creator, item.CategoryID, item.SubcategoryID,
		item.HouseID, item.RoomID, item.Condition, item.Valuation, item.Currency,
		attrs, item.LocationSort, boolToInt(item.Deleted), item.Version,
		item.CreatedAt, item.UpdatedAt, item.GenerateHash())
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	slog.Info("created item", "id", item.ID, "kind", item.Kind, "title", item.Title)
	return nil
}

// SaveItems bulk-inserts imported items, skipping rows whose content hash is
// already present. Returns the number of items actually inserted.
func (s *SQLiteStorage) SaveItems(ctx context.Context, items []model.Item) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for i := range items {
		item := &items[i]
		if err := validateItem(item); err != nil {
			return inserted, err
		}

		hash := item.GenerateHash()
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM items WHERE hash = ?`, hash).Scan(&exists)
		if err != nil {
			return inserted, fmt.Errorf("failed to check duplicate: %w", err)
		}
		if exists > 0 {
			continue
		}

		now := time.Now().UTC()
		item.CreatedAt = now
		item.UpdatedAt = now
		item.Version = 1

		attrs, err := encodeAttrs(item.Attrs)
		if err != nil {
			return inserted, err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO items (`+itemColumns+`, hash)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, string(item.Kind), item.Title, item.Description, item.Notes,
			item.Quantity, item.Year, item.Creator, item.CategoryID, item.SubcategoryID,
			item.HouseID, item.RoomID, item.Condition, item.Valuation, item.Currency,
			attrs, item.LocationSort, boolToInt(item.Deleted), item.Version,
			item.CreatedAt, item.UpdatedAt, hash); err != nil {
			return inserted, fmt.Errorf("failed to insert item %s: %w", item.ID, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("failed to commit import: %w", err)
	}

	slog.Info("saved items", "total", len(items), "inserted", inserted,
		"duplicates", len(items)-inserted)
	return inserted, nil
}

// UpdateItem persists an edit: the stored version is snapshotted into
// item_history, then the row is replaced with version+1.
func (s *SQLiteStorage) UpdateItem(ctx context.Context, item *model.Item) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateItem(item); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	prior, err := scanItem(tx.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, item.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := pushItemHistory(ctx, tx, prior); err != nil {
		return err
	}

	item.Version = prior.Version + 1
	item.CreatedAt = prior.CreatedAt
	item.UpdatedAt = time.Now().UTC()

	attrs, err := encodeAttrs(item.Attrs)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE items SET kind = ?, title = ?, description = ?, notes = ?,
			quantity = ?, year = ?, creator = ?, category_id = ?,
			subcategory_id = ?, house_id = ?, room_id = ?, condition = ?,
			valuation = ?, currency = ?, attrs = ?, location_sort = ?,
			deleted = ?, version = ?, updated_at = ?, hash = ?
		WHERE id = ?`,
		string(item.Kind), item.Title, item.Description, item.Notes,
		item.Quantity, item.Year, item.Creator, item.CategoryID,
		item.SubcategoryID, item.HouseID, item.RoomID, item.Condition,
		item.Valuation, item.Currency, attrs, item.LocationSort,
		boolToInt(item.Deleted), item.Version, item.UpdatedAt,
		item.GenerateHash(), item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit update: %w", err)
	}

	slog.Info("updated item", "id", item.ID, "version", item.Version)
	return nil
}

// DeleteItem soft-deletes an item; the row stays for history views.
func (s *SQLiteStorage) DeleteItem(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	item, err := s.GetItem(ctx, id)
	if err != nil {
		return err
	}
	item.Deleted = true
	return s.UpdateItem(ctx, item)
}

// GetItemHistory returns the prior snapshots of an item, newest first.
func (s *SQLiteStorage) GetItemHistory(ctx context.Context, id string) ([]model.Item, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT snapshot FROM item_history
		WHERE item_id = ?
		ORDER BY version DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query item history: %w", err)
	}
	defer rows.Close()

	var history []model.Item
	for rows.Next() {
		var snapshot string
		if err := rows.Scan(&snapshot); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		var item model.Item
		if err := json.Unmarshal([]byte(snapshot), &item); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
		history = append(history, item)
	}
	return history, rows.Err()
}

// CountItemsByRoom counts non-deleted items linked to a room; room deletion
// is gated on this.
func (s *SQLiteStorage) CountItemsByRoom(ctx context.Context, houseID, roomID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM items
		WHERE house_id = ? AND room_id = ? AND deleted = 0`,
		houseID, roomID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items by room: %w", err)
	}
	return count, nil
}

// CountItemsBySubcategory counts non-deleted items linked to a subcategory.
func (s *SQLiteStorage) CountItemsBySubcategory(ctx context.Context, subcategoryID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM items
		WHERE subcategory_id = ? AND deleted = 0`, subcategoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items by subcategory: %w", err)
	}
	return count, nil
}

func pushItemHistory(ctx context.Context, tx *sql.Tx, prior *model.Item) error {
	snapshot, err := json.Marshal(prior)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO item_history (item_id, version, snapshot)
		VALUES (?, ?, ?)`, prior.ID, prior.Version, string(snapshot)); err != nil {
		return fmt.Errorf("failed to record history: %w", err)
	}

	// Keep the newest snapshots only.
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM item_history
		WHERE item_id = ? AND id NOT IN (
			SELECT id FROM item_history
			WHERE item_id = ?
			ORDER BY version DESC
			LIMIT ?
		)`, prior.ID, prior.ID, historyRetention); err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.Item, error) {
	var (
		item      model.Item
		kind      string
		attrs     sql.NullString
		valuation sql.NullFloat64
		locSort   sql.NullInt64
		deleted   int
	)

	err := row.Scan(&item.ID, &kind, &item.Title, &item.Description, &item.Notes,
		&item.Quantity, &item.Year, &item.Creator, &item.CategoryID,
		&item.SubcategoryID, &item.HouseID, &item.RoomID, &item.Condition,
		&valuation, &item.Currency, &attrs, &locSort, &deleted,
		&item.Version, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}

	item.Kind = model.Kind(kind)
	item.Deleted = deleted != 0
	if valuation.Valid {
		v := valuation.Float64
		item.Valuation = &v
	}
	if locSort.Valid {
		v := int(locSort.Int64)
		item.LocationSort = &v
	}
	if attrs.Valid && attrs.String != "" {
		if err := json.Unmarshal([]byte(attrs.String), &item.Attrs); err != nil {
			return nil, fmt.Errorf("failed to decode attrs: %w", err)
		}
	}
	return &item, nil
}

func encodeAttrs(attrs map[string]string) (string, error) {
	if len(attrs) == 0 {
		return "", nil
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return "", fmt.Errorf("failed to encode attrs: %w", err)
	}
	return string(data), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
