// Package jsonfile implements the SettingsStore port as a JSON snapshot file.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ericfisherdev/mscbot/internal/domain/model"
	"github.com/ericfisherdev/mscbot/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SettingsStore = (*SettingsRepo)(nil)

// SettingsRepo keeps the room-settings map in memory and mirrors it to a
// single JSON file. Every mutation rewrites the whole file, after renaming
// the previous snapshot to a ".bak" sibling. Persistence failures are logged
// and swallowed: memory stays authoritative and the next successful mutation
// rewrites the file.
type SettingsRepo struct {
	path  string
	rooms map[string]model.RoomSettings
}

// NewSettingsRepo creates a SettingsRepo backed by the file at path. An
// existing snapshot fully replaces the in-memory map; a snapshot that exists
// but cannot be decoded is a fatal configuration error.
func NewSettingsRepo(path string) (*SettingsRepo, error) {
	repo := &SettingsRepo{
		path:  path,
		rooms: make(map[string]model.RoomSettings),
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return repo, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading room settings %s: %w", path, err)
	}

	if err := json.Unmarshal(raw, &repo.rooms); err != nil {
		return nil, fmt.Errorf("parsing room settings %s: %w", path, err)
	}

	slog.Info("room settings loaded", "path", path, "rooms", len(repo.rooms))
	return repo, nil
}

// Get returns the settings for a room, or the zero value if none exist.
func (r *SettingsRepo) Get(roomID string) model.RoomSettings {
	return r.rooms[roomID]
}

// Update applies mutate to the room's settings and persists the full map.
func (r *SettingsRepo) Update(roomID string, mutate func(*model.RoomSettings)) {
	settings := r.rooms[roomID]
	mutate(&settings)
	r.rooms[roomID] = settings
	r.persist()
}

// Delete clears one setting key for a room and persists the full map. The
// room's entry remains even when all its keys are cleared.
func (r *SettingsRepo) Delete(roomID string, key model.SettingKey) {
	settings, ok := r.rooms[roomID]
	if !ok {
		slog.Warn("tried to delete setting for unknown room", "room", roomID, "key", string(key))
		return
	}
	settings.Clear(key)
	r.rooms[roomID] = settings
	r.persist()
}

// All returns a copy of the full room-settings map.
func (r *SettingsRepo) All() map[string]model.RoomSettings {
	out := make(map[string]model.RoomSettings, len(r.rooms))
	for id, s := range r.rooms {
		out[id] = s
	}
	return out
}

// persist rotates the previous snapshot to ".bak" and writes the current map.
func (r *SettingsRepo) persist() {
	if _, err := os.Stat(r.path); err == nil {
		if err := os.Rename(r.path, r.path+".bak"); err != nil {
			slog.Warn("unable to rotate room settings backup", "path", r.path, "error", err)
		}
	}

	raw, err := json.Marshal(r.rooms)
	if err != nil {
		slog.Warn("unable to encode room settings", "error", err)
		return
	}

	if err := os.WriteFile(r.path, raw, 0o600); err != nil {
		slog.Warn("unable to save room settings to disk", "path", r.path, "error", err)
	}
}
