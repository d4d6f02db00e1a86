package application

import (
	"context"
	"strconv"
	"time"

	"github.com/ericfisherdev/mscbot/internal/domain/model"
)

// --- Hand-written fakes for the driven ports ---

type fakeTracker struct {
	issues      []model.TrackedIssue
	comments    map[int][]model.IssueComment
	labelEvents map[int][]model.LabelEvent
	listErr     error
	commentsErr error
	eventsErr   error
}

func (f *fakeTracker) ListProposals(_ context.Context) ([]model.TrackedIssue, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.issues, nil
}

func (f *fakeTracker) ListComments(_ context.Context, number int) ([]model.IssueComment, error) {
	if f.commentsErr != nil {
		return nil, f.commentsErr
	}
	return f.comments[number], nil
}

func (f *fakeTracker) ListLabelEvents(_ context.Context, number int) ([]model.LabelEvent, error) {
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return f.labelEvents[number], nil
}

type fakeReviewFeed struct {
	records []model.ReviewRecord
	err     error
}

func (f *fakeReviewFeed) FetchAll(_ context.Context) ([]model.ReviewRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type fakeAnnouncementFeed struct {
	published time.Time
	err       error
}

func (f *fakeAnnouncementFeed) LatestPublished(_ context.Context) (time.Time, error) {
	if f.err != nil {
		return time.Time{}, f.err
	}
	return f.published, nil
}

// fakeSettings is an in-memory SettingsStore without persistence.
type fakeSettings struct {
	rooms map[string]model.RoomSettings
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{rooms: make(map[string]model.RoomSettings)}
}

func (f *fakeSettings) Get(roomID string) model.RoomSettings {
	return f.rooms[roomID]
}

func (f *fakeSettings) Update(roomID string, mutate func(*model.RoomSettings)) {
	settings := f.rooms[roomID]
	mutate(&settings)
	f.rooms[roomID] = settings
}

func (f *fakeSettings) Delete(roomID string, key model.SettingKey) {
	settings, ok := f.rooms[roomID]
	if !ok {
		return
	}
	settings.Clear(key)
	f.rooms[roomID] = settings
}

func (f *fakeSettings) All() map[string]model.RoomSettings {
	out := make(map[string]model.RoomSettings, len(f.rooms))
	for id, s := range f.rooms {
		out[id] = s
	}
	return out
}

// --- Shared test fixtures ---

func issue(number int, title string, labels ...string) model.TrackedIssue {
	return model.TrackedIssue{
		Number: number,
		Title:  title,
		URL:    "https://github.com/example/proposals/pull/" + strconv.Itoa(number),
		Labels: labels,
	}
}
