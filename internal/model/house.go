package model

import "time"

// House represents a location that contains rooms.
// Code is a short uppercase identifier, unique by convention.
type House struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	Rooms     []Room    `json:"rooms,omitempty"`
	Position  int       `json:"position"`
	Version   int       `json:"version"`
	Visible   bool      `json:"visible"`
}

// Room is a location within a house. Ids are unique only within the owning
// house; cross-house references always use the composite house|room key.
type Room struct {
	ID      string `json:"id"`
	Code    string `json:"code,omitempty"` // derived from the house code
	Name    string `json:"name"`
	Floor   int    `json:"floor"`
	Version int    `json:"version"`
	Visible bool   `json:"visible"`
	Deleted bool   `json:"is_deleted,omitempty"`
}

// VisibleRooms returns the rooms shown in filter UIs, excluding deleted ones.
func (h *House) VisibleRooms() []Room {
	out := make([]Room, 0, len(h.Rooms))
	for _, room := range h.Rooms {
		if room.Visible && !room.Deleted {
			out = append(out, room)
		}
	}
	return out
}

// RoomKeys returns the composite keys of all visible rooms.
func (h *House) RoomKeys() []string {
	keys := make([]string, 0, len(h.Rooms))
	for _, room := range h.Rooms {
		if room.Visible && !room.Deleted {
			keys = append(keys, RoomKey(h.ID, room.ID))
		}
	}
	return keys
}

// FindRoom returns the room with the given id, or nil.
func (h *House) FindRoom(roomID string) *Room {
	for idx := range h.Rooms {
		if h.Rooms[idx].ID == roomID {
			return &h.Rooms[idx]
		}
	}
	return nil
}
