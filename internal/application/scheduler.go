package application

import (
	"log/slog"
	"sort"
	"time"

	"github.com/ericfisherdev/mscbot/internal/domain/model"
)

// Scheduler tracks one recurring daily summary trigger per room, keyed by
// room ID. It only records and reports due triggers; the control loop polls
// Due on a coarse tick, which keeps scheduled digests on the same goroutine
// as command handling.
type Scheduler struct {
	entries map[string]*scheduleEntry
	now     func() time.Time
}

type scheduleEntry struct {
	at      string // Zero-padded 24h "HH:MM", UTC.
	firedOn string // "2006-01-02" of the last firing, guards once per day.
}

// NewScheduler creates an empty Scheduler.
func NewScheduler() *Scheduler {
	return NewSchedulerWithClock(time.Now)
}

// NewSchedulerWithClock creates a Scheduler with an injected clock.
// This constructor is intended for testing.
func NewSchedulerWithClock(now func() time.Time) *Scheduler {
	return &Scheduler{entries: make(map[string]*scheduleEntry), now: now}
}

// Retag replaces any existing trigger for the room with one at the given
// "HH:MM" UTC time, leaving exactly one trigger per room. A trigger armed at
// a time-of-day that has already passed waits for tomorrow's occurrence, so
// restarts and late reconfiguration never re-send a summary the same day.
func (s *Scheduler) Retag(roomID, at string) {
	entry := &scheduleEntry{at: at}
	if now := s.now().UTC(); now.Format("15:04") >= at {
		entry.firedOn = now.Format("2006-01-02")
	}
	s.entries[roomID] = entry
	slog.Info("daily summary scheduled", "room", roomID, "at", at)
}

// Cancel removes the room's trigger, if any.
func (s *Scheduler) Cancel(roomID string) {
	delete(s.entries, roomID)
}

// At returns the room's trigger time, if one is armed.
func (s *Scheduler) At(roomID string) (string, bool) {
	e, ok := s.entries[roomID]
	if !ok {
		return "", false
	}
	return e.at, true
}

// Rooms returns the IDs of all armed rooms, sorted.
func (s *Scheduler) Rooms() []string {
	rooms := make([]string, 0, len(s.entries))
	for id := range s.entries {
		rooms = append(rooms, id)
	}
	sort.Strings(rooms)
	return rooms
}

// Due returns the rooms whose trigger time has been reached today and marks
// them fired, so each trigger fires at most once per day. The comparison is
// >= rather than == because the control loop polls on a coarse tick.
func (s *Scheduler) Due(now time.Time) []string {
	now = now.UTC()
	today := now.Format("2006-01-02")
	clock := now.Format("15:04")

	var due []string
	for roomID, e := range s.entries {
		if e.firedOn == today || clock < e.at {
			continue
		}
		e.firedOn = today
		due = append(due, roomID)
	}

	sort.Strings(due)
	return due
}

// ArmFromSettings arms startup triggers from the persisted room settings:
// first every room with a custom summary time, then one pass arming the
// remaining rooms at the process-wide default. Rooms that disabled summaries
// are skipped.
func (s *Scheduler) ArmFromSettings(rooms map[string]model.RoomSettings, defaultTime string) {
	for roomID, settings := range rooms {
		if !settings.SummariesEnabled() || settings.SummaryTime == "" {
			continue
		}
		s.Retag(roomID, settings.SummaryTime)
	}

	for roomID, settings := range rooms {
		if !settings.SummariesEnabled() || settings.SummaryTime != "" {
			continue
		}
		s.Retag(roomID, defaultTime)
	}
}
