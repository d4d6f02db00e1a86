package driven

import "github.com/ericfisherdev/mscbot/internal/domain/model"

// SettingsStore defines the driven port for per-room settings. The in-memory
// map is authoritative; every mutation triggers a best-effort persist whose
// failure is logged, not returned. Only the single control loop touches the
// store, so implementations need no locking.
type SettingsStore interface {
	// Get returns the settings for a room, or the zero value if none exist.
	Get(roomID string) model.RoomSettings
	// Update applies mutate to the room's settings (creating the entry on
	// first write) and persists the full map.
	Update(roomID string, mutate func(*model.RoomSettings))
	// Delete clears one setting key for a room and persists the full map.
	// The room's entry remains even when all keys are cleared.
	Delete(roomID string, key model.SettingKey)
	// All returns a copy of the full room-settings map.
	All() map[string]model.RoomSettings
}
