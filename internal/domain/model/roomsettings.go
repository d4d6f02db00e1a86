package model

// SummaryMode selects what the daily summary for a room contains.
type SummaryMode string

// Summary content modes settable per room.
const (
	SummaryAll        SummaryMode = "all"
	SummaryPending    SummaryMode = "pending"
	SummaryFCP        SummaryMode = "fcp"
	SummaryInProgress SummaryMode = "in-progress"
)

// Valid reports whether m is one of the settable summary modes.
func (m SummaryMode) Valid() bool {
	switch m {
	case SummaryAll, SummaryPending, SummaryFCP, SummaryInProgress:
		return true
	}
	return false
}

// SettingKey names one clearable field of RoomSettings. The keys double as the
// JSON field names in the persisted snapshot.
type SettingKey string

// Room setting keys.
const (
	KeySummaryEnabled SettingKey = "summary_enabled"
	KeySummaryTime    SettingKey = "summary_time"
	KeySummaryContent SettingKey = "summary_content"
	KeyPriorityMSCs   SettingKey = "priority_mscs"
)

// RoomSettings holds the per-room configuration mutated by bot commands.
// Unset fields fall back to defaults: summaries enabled, the process-wide
// summary time, mode "all", no priority filter.
type RoomSettings struct {
	SummaryEnabled *bool       `json:"summary_enabled,omitempty"`
	SummaryTime    string      `json:"summary_time,omitempty"`
	SummaryContent SummaryMode `json:"summary_content,omitempty"`
	PriorityMSCs   []int       `json:"priority_mscs,omitempty"`
}

// SummariesEnabled reports whether daily summaries are on for the room.
// Summaries are enabled unless explicitly disabled.
func (s RoomSettings) SummariesEnabled() bool {
	return s.SummaryEnabled == nil || *s.SummaryEnabled
}

// Mode returns the effective summary content mode, defaulting to SummaryAll.
func (s RoomSettings) Mode() SummaryMode {
	if s.SummaryContent == "" {
		return SummaryAll
	}
	return s.SummaryContent
}

// Clear zeroes the field named by key.
func (s *RoomSettings) Clear(key SettingKey) {
	switch key {
	case KeySummaryEnabled:
		s.SummaryEnabled = nil
	case KeySummaryTime:
		s.SummaryTime = ""
	case KeySummaryContent:
		s.SummaryContent = ""
	case KeyPriorityMSCs:
		s.PriorityMSCs = nil
	}
}
