package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/curiocollect/curio/internal/common"
	"github.com/curiocollect/curio/internal/model"
)

// GetHouses returns all houses with their rooms, in display order.
func (s *SQLiteStorage) GetHouses(ctx context.Context) ([]model.House, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, name, city, country, visible, position, version,
			created_at, updated_at
		FROM houses
		ORDER BY position, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query houses: %w", err)
	}
	defer rows.Close()

	var houses []model.House
	index := make(map[string]int)
	for rows.Next() {
		house, err := scanHouse(rows)
		if err != nil {
			return nil, err
		}
		index[house.ID] = len(houses)
		houses = append(houses, *house)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating houses: %w", err)
	}

	roomRows, err := s.db.QueryContext(ctx, `
		SELECT id, house_id, code, name, floor, visible, is_deleted, version
		FROM rooms
		ORDER BY house_id, floor, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer roomRows.Close()

	for roomRows.Next() {
		var (
			room             model.Room
			houseID          string
			visible, deleted int
		)
		if err := roomRows.Scan(&room.ID, &houseID, &room.Code, &room.Name,
			&room.Floor, &visible, &deleted, &room.Version); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		room.Visible = visible != 0
		room.Deleted = deleted != 0
		if i, ok := index[houseID]; ok {
			houses[i].Rooms = append(houses[i].Rooms, room)
		}
	}
	if err := roomRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}

	slog.Debug("retrieved houses", "count", len(houses))
	return houses, nil
}

// GetHouse returns a single house with its rooms.
func (s *SQLiteStorage) GetHouse(ctx context.Context, id string) (*model.House, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	houses, err := s.GetHouses(ctx)
	if err != nil {
		return nil, err
	}
	for i := range houses {
		if houses[i].ID == id {
			return &houses[i], nil
		}
	}
	return nil, common.ErrNotFound
}

// CreateHouse inserts a new house at version 1.
func (s *SQLiteStorage) CreateHouse(ctx context.Context, house *model.House) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateHouse(house); err != nil {
		return err
	}

	house.Code = strings.ToUpper(house.Code)
	now := time.Now().UTC()
	house.CreatedAt = now
	house.UpdatedAt = now
	house.Version = 1

	var maxPos int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) FROM houses`).Scan(&maxPos); err != nil {
		return fmt.Errorf("failed to read house positions: %w", err)
	}
	house.Position = maxPos + 1

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO houses (id, code, name, city, country, visible, position,
			version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		house.ID, house.Code, house.Name, house.City, house.Country,
		boolToInt(house.Visible), house.Position, house.Version,
		house.CreatedAt, house.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create house: %w", err)
	}

	slog.Info("created house", "id", house.ID, "code", house.Code)
	return nil
}

// UpdateHouse persists an edit: the stored version, rooms included, is
// snapshotted into house_history, then the row is replaced with version+1.
func (s *SQLiteStorage) UpdateHouse(ctx context.Context, house *model.House) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateHouse(house); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	prior, err := loadHouseTx(ctx, tx, house.ID)
	if err != nil {
		return err
	}
	if err := pushHouseHistory(ctx, tx, prior); err != nil {
		return err
	}

	house.Code = strings.ToUpper(house.Code)
	house.Version = prior.Version + 1
	house.CreatedAt = prior.CreatedAt
	house.UpdatedAt = time.Now().UTC()

	if _, err := tx.ExecContext(ctx, `
		UPDATE houses SET code = ?, name = ?, city = ?, country = ?,
			visible = ?, position = ?, version = ?, updated_at = ?
		WHERE id = ?`,
		house.Code, house.Name, house.City, house.Country,
		boolToInt(house.Visible), house.Position, house.Version,
		house.UpdatedAt, house.ID); err != nil {
		return fmt.Errorf("failed to update house: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit update: %w", err)
	}

	slog.Info("updated house", "id", house.ID, "version", house.Version)
	return nil
}

// GetHouseHistory returns prior versions of a house, newest first.
func (s *SQLiteStorage) GetHouseHistory(ctx context.Context, id string) ([]model.House, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT snapshot FROM house_history
		WHERE house_id = ?
		ORDER BY version DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query house history: %w", err)
	}
	defer rows.Close()

	var history []model.House
	for rows.Next() {
		var snapshot string
		if err := rows.Scan(&snapshot); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		var house model.House
		if err := json.Unmarshal([]byte(snapshot), &house); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
		history = append(history, house)
	}
	return history, rows.Err()
}

// CreateRoom adds a room to a house. The room code derives from the house
// code when not set. Changing the room set is an edit of the house: the
// prior house snapshot is pushed and the house version bumps.
func (s *SQLiteStorage) CreateRoom(ctx context.Context, houseID string, room *model.Room) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(houseID, "houseID"); err != nil {
		return err
	}
	if room == nil || room.ID == "" || room.Name == "" {
		return fmt.Errorf("room id and name cannot be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	prior, err := loadHouseTx(ctx, tx, houseID)
	if err != nil {
		return err
	}
	if err := pushHouseHistory(ctx, tx, prior); err != nil {
		return err
	}

	if room.Code == "" {
		room.Code = fmt.Sprintf("%s-%s", prior.Code, strings.ToUpper(room.ID))
	}
	room.Version = 1

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO rooms (id, house_id, code, name, floor, visible, is_deleted, version)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
		room.ID, houseID, room.Code, room.Name, room.Floor,
		boolToInt(room.Visible), room.Version); err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	if err := bumpHouseVersion(ctx, tx, houseID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit room create: %w", err)
	}

	slog.Info("created room", "id", room.ID, "house", houseID)
	return nil
}

// UpdateRoom renames or toggles visibility of a room. The prior house
// snapshot, rooms included, goes to house_history before the mutation.
func (s *SQLiteStorage) UpdateRoom(ctx context.Context, houseID string, room *model.Room) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if room == nil || room.ID == "" {
		return fmt.Errorf("room id cannot be empty")
	}

	return s.mutateRoom(ctx, houseID, room.ID, `
		UPDATE rooms SET name = ?, floor = ?, visible = ?, version = version + 1
		WHERE id = ? AND house_id = ?`,
		room.Name, room.Floor, boolToInt(room.Visible), room.ID, houseID)
}

// DeleteRoom soft-deletes a room, refusing while items still reference it.
func (s *SQLiteStorage) DeleteRoom(ctx context.Context, houseID, roomID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(roomID, "roomID"); err != nil {
		return err
	}

	linked, err := s.CountItemsByRoom(ctx, houseID, roomID)
	if err != nil {
		return err
	}
	if linked > 0 {
		return fmt.Errorf("%w: %d items still use room %q",
			common.ErrHasLinkedItems, linked, model.RoomKey(houseID, roomID))
	}

	if err := s.mutateRoom(ctx, houseID, roomID, `
		UPDATE rooms SET is_deleted = 1, version = version + 1
		WHERE id = ? AND house_id = ?`, roomID, houseID); err != nil {
		return err
	}

	slog.Info("deleted room", "id", roomID, "house", houseID)
	return nil
}

// mutateRoom runs a single room UPDATE inside a transaction that first
// snapshots the owning house and afterwards bumps its version. A missing
// room rolls the snapshot back.
func (s *SQLiteStorage) mutateRoom(ctx context.Context, houseID, roomID, query string, args ...any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	prior, err := loadHouseTx(ctx, tx, houseID)
	if err != nil {
		return err
	}
	if err := pushHouseHistory(ctx, tx, prior); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update room %s: %w", roomID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	if err := bumpHouseVersion(ctx, tx, houseID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit room update: %w", err)
	}
	return nil
}

// loadHouseTx reads a house with all of its rooms inside a transaction, so
// the snapshot recorded before a mutation is the complete prior state.
func loadHouseTx(ctx context.Context, tx *sql.Tx, id string) (*model.House, error) {
	house, err := scanHouse(tx.QueryRowContext(ctx, `
		SELECT id, code, name, city, country, visible, position, version,
			created_at, updated_at
		FROM houses WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, code, name, floor, visible, is_deleted, version
		FROM rooms WHERE house_id = ?
		ORDER BY floor, name`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			room             model.Room
			visible, deleted int
		)
		if err := rows.Scan(&room.ID, &room.Code, &room.Name, &room.Floor,
			&visible, &deleted, &room.Version); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		room.Visible = visible != 0
		room.Deleted = deleted != 0
		house.Rooms = append(house.Rooms, room)
	}
	return house, rows.Err()
}

// pushHouseHistory records the prior house snapshot and prunes to the
// retention cap.
func pushHouseHistory(ctx context.Context, tx *sql.Tx, prior *model.House) error {
	snapshot, err := json.Marshal(prior)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO house_history (house_id, version, snapshot)
		VALUES (?, ?, ?)`, prior.ID, prior.Version, string(snapshot)); err != nil {
		return fmt.Errorf("failed to record history: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM house_history
		WHERE house_id = ? AND id NOT IN (
			SELECT id FROM house_history
			WHERE house_id = ?
			ORDER BY version DESC
			LIMIT ?
		)`, prior.ID, prior.ID, historyRetention); err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	return nil
}

// bumpHouseVersion marks the house aggregate as edited after a room change.
func bumpHouseVersion(ctx context.Context, tx *sql.Tx, houseID string) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE houses SET version = version + 1, updated_at = ?
		WHERE id = ?`, time.Now().UTC(), houseID); err != nil {
		return fmt.Errorf("failed to bump house version: %w", err)
	}
	return nil
}

func scanHouse(row rowScanner) (*model.House, error) {
	var (
		house   model.House
		visible int
	)
	err := row.Scan(&house.ID, &house.Code, &house.Name, &house.City,
		&house.Country, &visible, &house.Position, &house.Version,
		&house.CreatedAt, &house.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan house: %w", err)
	}
	house.Visible = visible != 0
	return &house, nil
}
