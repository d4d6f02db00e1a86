package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/mscbot/internal/domain/model"
)

var newsNow = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func newTestNewsService(tracker *fakeTracker, announce *fakeAnnouncementFeed) *NewsService {
	if announce == nil {
		announce = &fakeAnnouncementFeed{}
	}
	svc := NewNewsService(tracker, announce)
	svc.now = func() time.Time { return newsNow }
	return svc
}

func TestResolveWindow_DefaultIsLastWeek(t *testing.T) {
	svc := newTestNewsService(&fakeTracker{}, nil)

	w, err := svc.ResolveWindow(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, newsNow.AddDate(0, 0, -7), w.From)
	assert.Equal(t, newsNow, w.Until)
	assert.False(t, w.SinceTWIM)
}

func TestResolveWindow_TWIM(t *testing.T) {
	published := newsNow.AddDate(0, 0, -4)
	svc := newTestNewsService(&fakeTracker{}, &fakeAnnouncementFeed{published: published})

	w, err := svc.ResolveWindow(context.Background(), []string{"twim"})

	require.NoError(t, err)
	assert.Equal(t, published, w.From)
	assert.Equal(t, newsNow, w.Until)
	assert.True(t, w.SinceTWIM)
}

func TestResolveWindow_TWIMFeedFailure(t *testing.T) {
	svc := newTestNewsService(&fakeTracker{}, &fakeAnnouncementFeed{err: errors.New("feed down")})

	_, err := svc.ResolveWindow(context.Background(), []string{"twim"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TWIM")
}

func TestResolveWindow_FromTo(t *testing.T) {
	svc := newTestNewsService(&fakeTracker{}, nil)

	w, err := svc.ResolveWindow(context.Background(), []string{"from", "2026-08-01", "to", "2026-08-15"})

	require.NoError(t, err)
	assert.Equal(t, time.August, w.From.Month())
	assert.Equal(t, 1, w.From.Day())
	assert.Equal(t, 15, w.Until.Day())
}

func TestResolveWindow_FromWithoutTo(t *testing.T) {
	svc := newTestNewsService(&fakeTracker{}, nil)

	_, err := svc.ResolveWindow(context.Background(), []string{"from", "2026-08-01"})

	require.Error(t, err)
}

func TestResolveWindow_Since(t *testing.T) {
	svc := newTestNewsService(&fakeTracker{}, nil)

	w, err := svc.ResolveWindow(context.Background(), []string{"since", "2026-08-20"})

	require.NoError(t, err)
	assert.Equal(t, 20, w.From.Day())
	assert.Equal(t, newsNow, w.Until)
}

func TestResolveWindow_Garbage(t *testing.T) {
	svc := newTestNewsService(&fakeTracker{}, nil)

	_, err := svc.ResolveWindow(context.Background(), []string{"whenever"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "whenever")
}

func TestDigest_BucketsByLatestTransition(t *testing.T) {
	w := Window{From: newsNow.AddDate(0, 0, -7), Until: newsNow}
	tracker := &fakeTracker{labelEvents: map[int][]model.LabelEvent{
		1: {
			{Label: model.LabelInReview, Added: true, CreatedAt: newsNow.AddDate(0, 0, -5)},
			{Label: model.LabelFCP, Added: true, CreatedAt: newsNow.AddDate(0, 0, -2)},
		},
		2: {{Label: model.LabelFinishedFCP, Added: true, CreatedAt: newsNow.AddDate(0, 0, -1)}},
		3: {{Label: model.LabelProposal, Added: true, CreatedAt: newsNow.AddDate(0, 0, -3)}},
		4: {{Label: model.LabelFCP, Added: false, CreatedAt: newsNow.AddDate(0, 0, -1)}},
	}}
	svc := newTestNewsService(tracker, nil)

	entries := []model.StatusEntry{
		{Issue: issue(1, "MSC1: Typing", model.LabelProposal)},
		{Issue: issue(2, "MSC2: Threads", model.LabelProposal)},
		{Issue: issue(3, "MSC3: Spaces", model.LabelProposal)},
		{Issue: issue(4, "MSC4: Edits", model.LabelProposal)},
	}

	got, err := svc.Digest(context.Background(), w, entries, false)
	require.NoError(t, err)

	// Issue 1's newest in-window addition is FCP, so it lands there alone.
	fcpIdx := indexOf(t, got, "**Final Comment Period**")
	inProgressIdx := indexOf(t, got, "**In Progress MSCs**")
	assert.Contains(t, got[fcpIdx:inProgressIdx], "[[MSC 1]: Typing]")

	assert.Contains(t, got, "[[MSC 2]: Threads](https://github.com/example/proposals/pull/2)")
	assert.Contains(t, got, "[[MSC 3]: Spaces]")
	// Label removals never count.
	assert.NotContains(t, got, "MSC 4")
}

func TestDigest_WindowBoundariesAreHalfOpen(t *testing.T) {
	w := Window{From: newsNow.AddDate(0, 0, -7), Until: newsNow}
	tracker := &fakeTracker{labelEvents: map[int][]model.LabelEvent{
		1: {{Label: model.LabelFCP, Added: true, CreatedAt: w.From}},
		2: {{Label: model.LabelFCP, Added: true, CreatedAt: w.Until}},
		3: {{Label: model.LabelFCP, Added: true, CreatedAt: w.From.Add(-time.Second)}},
	}}
	svc := newTestNewsService(tracker, nil)

	entries := []model.StatusEntry{
		{Issue: issue(1, "MSC1: At From", model.LabelProposal)},
		{Issue: issue(2, "MSC2: At Until", model.LabelProposal)},
		{Issue: issue(3, "MSC3: Before From", model.LabelProposal)},
	}

	got, err := svc.Digest(context.Background(), w, entries, false)
	require.NoError(t, err)

	assert.Contains(t, got, "MSC 1")
	assert.NotContains(t, got, "MSC 2")
	assert.NotContains(t, got, "MSC 3")
}

func TestDigest_EmptyBucketsAndPriorityCaveat(t *testing.T) {
	w := Window{From: newsNow.AddDate(0, 0, -7), Until: newsNow}
	svc := newTestNewsService(&fakeTracker{}, nil)

	got, err := svc.Digest(context.Background(), w, nil, true)
	require.NoError(t, err)

	assert.Contains(t, got, "*No MSCs have been approved.*")
	assert.Contains(t, got, "*No MSCs have entered FCP.*")
	assert.Contains(t, got, "*No MSCs have been started.*")
	assert.Contains(t, got, "priority MSCs enabled in this room")
}

func TestDigest_EventFetchFailure(t *testing.T) {
	w := Window{From: newsNow.AddDate(0, 0, -7), Until: newsNow}
	svc := newTestNewsService(&fakeTracker{eventsErr: errors.New("tracker down")}, nil)

	_, err := svc.Digest(context.Background(), w, []model.StatusEntry{{Issue: issue(1, "MSC1", model.LabelProposal)}}, false)

	require.Error(t, err)
}

func TestStripTitlePrefix(t *testing.T) {
	assert.Equal(t, "Better events", stripTitlePrefix("MSC123: Better events", 123))
	assert.Equal(t, "Better events", stripTitlePrefix("MSC 123: Better events", 123))
	assert.Equal(t, "Better events", stripTitlePrefix("Better events", 123))
	assert.Equal(t, "MSC456: Other", stripTitlePrefix("MSC456: Other", 123))
}

func indexOf(t *testing.T, s, sub string) int {
	t.Helper()
	idx := strings.Index(s, sub)
	require.GreaterOrEqual(t, idx, 0, "missing %q", sub)
	return idx
}
