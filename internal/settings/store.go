// Package settings owns the persisted UI settings. Instead of module-level
// mutable state, a single Store is constructed at startup and handed to the
// consumers that need it; changes flow through Update and fan out to
// subscribers.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Settings holds the user-adjustable view preferences.
type Settings struct {
	ViewMode      string `json:"view_mode"` // grid, list, table
	SortField     string `json:"sort_field"`
	SortDirection string `json:"sort_direction"`
	Currency      string `json:"currency"` // preferred display currency
}

// Defaults returns the settings used before anything is persisted.
func Defaults() Settings {
	return Settings{
		ViewMode:      "table",
		SortField:     "title",
		SortDirection: "asc",
	}
}

// Store is the single owner of the settings value. All reads and writes go
// through it; subscribers are notified synchronously after each update.
type Store struct {
	path    string
	current Settings
	subs    map[int]func(Settings)
	nextSub int
	mu      sync.RWMutex
}

// NewStore loads settings from path, falling back to defaults when the file
// does not exist yet.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:    path,
		current: Defaults(),
		subs:    make(map[int]func(Settings)),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := json.Unmarshal(data, &s.current); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return s, nil
}

// Get returns a snapshot of the current settings.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update applies fn to a copy of the current settings, persists the result,
// and notifies subscribers with the new snapshot.
func (s *Store) Update(fn func(*Settings)) error {
	s.mu.Lock()
	next := s.current
	fn(&next)
	s.current = next

	subs := make([]func(Settings), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	if err := s.persist(next); err != nil {
		return err
	}
	for _, sub := range subs {
		sub(next)
	}
	return nil
}

// Subscribe registers fn to run after every update. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func(Settings)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) persist(v Settings) error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
