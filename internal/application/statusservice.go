// Package application contains use-case orchestration services.
package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/mscbot/internal/domain/model"
	"github.com/ericfisherdev/mscbot/internal/domain/port/driven"
)

// StatusService merges the tracker's label state with the review feed into a
// unified status list. Each call fetches fresh data; there is no cache.
type StatusService struct {
	tracker  driven.Tracker
	feed     driven.ReviewFeed
	settings driven.SettingsStore
}

// NewStatusService creates a StatusService with all required dependencies.
func NewStatusService(tracker driven.Tracker, feed driven.ReviewFeed, settings driven.SettingsStore) *StatusService {
	return &StatusService{
		tracker:  tracker,
		feed:     feed,
		settings: settings,
	}
}

// Aggregate builds the unified status list. When roomID is non-empty and the
// room has priority MSCs set, the list is scoped to those issue numbers.
// Either fetch failing fails the whole call: there is no partial aggregation
// and no stale fallback, so callers must still notify the room on error.
func (s *StatusService) Aggregate(ctx context.Context, roomID string) ([]model.StatusEntry, error) {
	start := time.Now()

	issues, err := s.tracker.ListProposals(ctx)
	if err != nil {
		return nil, err
	}

	if roomID != "" {
		if priority := s.settings.Get(roomID).PriorityMSCs; len(priority) > 0 {
			issues = filterByNumber(issues, priority)
		}
	}

	records, err := s.feed.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	byNumber := make(map[int]model.ReviewRecord, len(records))
	for _, r := range records {
		byNumber[r.IssueNumber] = r
	}

	entries := make([]model.StatusEntry, 0, len(issues))
	for _, issue := range issues {
		entry := model.StatusEntry{Issue: issue}

		// A review record is attached only while the tracker shows the
		// proposed-FCP label. No match is a valid state: the feed may lag.
		if issue.HasLabel(model.LabelProposedFCP) {
			if record, ok := byNumber[issue.Number]; ok {
				entry.Review = &record
			}
		}

		entries = append(entries, entry)
	}

	slog.Debug("status aggregated",
		"issues", len(issues),
		"feed_records", len(records),
		"room", roomID,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return entries, nil
}

// filterByNumber keeps only the issues whose numbers appear in wanted.
func filterByNumber(issues []model.TrackedIssue, wanted []int) []model.TrackedIssue {
	keep := make(map[int]bool, len(wanted))
	for _, n := range wanted {
		keep[n] = true
	}

	var out []model.TrackedIssue
	for _, issue := range issues {
		if keep[issue.Number] {
			out = append(out, issue)
		}
	}
	return out
}
