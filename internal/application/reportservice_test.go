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

var reportNow = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func newTestReporter(tracker *fakeTracker, mentions map[string]string) *Reporter {
	r := NewReporter(tracker, 7, "mscbot", mentions)
	r.now = func() time.Time { return reportNow }
	return r
}

func mixedEntries() []model.StatusEntry {
	return []model.StatusEntry{
		{Issue: issue(30, "MSC30: In FCP", model.LabelProposal, model.LabelFCP)},
		{Issue: issue(10, "MSC10: Discussing", model.LabelProposal, model.LabelInReview)},
		{
			Issue: issue(20, "MSC20: Proposed", model.LabelProposal, model.LabelProposedFCP),
			Review: &model.ReviewRecord{
				IssueNumber: 20,
				Disposition: model.DispositionMerge,
				Reviewers: []model.Reviewer{
					{Login: "alice", Approved: true},
					{Login: "bob", Approved: false},
					{Login: "carol", Approved: false},
				},
			},
		},
	}
}

func TestStageBucketsAreDisjoint(t *testing.T) {
	for _, e := range mixedEntries() {
		stages := 0
		for _, in := range []bool{e.InProgress(), e.PendingFCP(), e.InFCP()} {
			if in {
				stages++
			}
		}
		assert.Equal(t, 1, stages, "entry %d should be in exactly one stage", e.Issue.Number)
	}
}

func TestComposite_SectionOrderAndSorting(t *testing.T) {
	r := newTestReporter(&fakeTracker{}, nil)

	got := r.Composite(context.Background(), mixedEntries())

	inProgress := strings.Index(got, "**In Progress**")
	pending := strings.Index(got, "**Pending Final Comment Period**")
	fcp := strings.Index(got, "**In Final Comment Period**")
	require.True(t, inProgress >= 0 && pending >= 0 && fcp >= 0)
	assert.Less(t, inProgress, pending)
	assert.Less(t, pending, fcp)

	// All three headers appear even though each holds one entry here; an
	// empty run still shows the headers with the fixed empty sentence.
	empty := r.Composite(context.Background(), nil)
	assert.Contains(t, empty, "**In Progress**")
	assert.Contains(t, empty, "**Pending Final Comment Period**")
	assert.Contains(t, empty, "**In Final Comment Period**")
	assert.Equal(t, 3, strings.Count(empty, "No MSCs in this category."))
}

func TestPendingSection_ReviewersAndMentions(t *testing.T) {
	r := newTestReporter(&fakeTracker{}, map[string]string{"bob": "@bob:example.org"})

	got := r.PendingSection(mixedEntries(), "")

	assert.Contains(t, got, "[[MSC20](https://github.com/example/proposals/pull/20)] - MSC20: Proposed - *merge*")
	assert.Contains(t, got, "To review: @bob:example.org, carol")
	assert.NotContains(t, got, "alice")
}

func TestPendingSection_ReviewerFilter(t *testing.T) {
	r := newTestReporter(&fakeTracker{}, nil)

	assert.Contains(t, r.PendingSection(mixedEntries(), "carol"), "MSC20")
	assert.Contains(t, r.PendingSection(mixedEntries(), "alice"), "No MSCs in this category.")
}

func TestFCPSection_RemainingDays(t *testing.T) {
	tracker := &fakeTracker{comments: map[int][]model.IssueComment{
		42: {
			{Author: "alice", CreatedAt: reportNow.Add(-5 * 24 * time.Hour)},
			{Author: "mscbot", CreatedAt: reportNow.Add(-9 * 24 * time.Hour)},
			{Author: "mscbot", CreatedAt: reportNow.Add(-2 * 24 * time.Hour)},
		},
	}}
	r := newTestReporter(tracker, nil)

	entries := []model.StatusEntry{{Issue: issue(42, "MSC42: Finalizing", model.LabelProposal, model.LabelFCP)}}
	got := r.FCPSection(context.Background(), entries)

	// FCP length 7, newest bot comment 2 days ago.
	assert.Contains(t, got, "Ends in **5 days**")
}

func TestFCPSection_EndsToday(t *testing.T) {
	tracker := &fakeTracker{comments: map[int][]model.IssueComment{
		42: {{Author: "mscbot", CreatedAt: reportNow.Add(-7 * 24 * time.Hour)}},
	}}
	r := newTestReporter(tracker, nil)

	entries := []model.StatusEntry{{Issue: issue(42, "MSC42: Finalizing", model.LabelFCP)}}

	assert.Contains(t, r.FCPSection(context.Background(), entries), "Ends **today**")
}

func TestFCPSection_NoBotCommentOmitsClause(t *testing.T) {
	tracker := &fakeTracker{comments: map[int][]model.IssueComment{
		42: {{Author: "alice", CreatedAt: reportNow.Add(-1 * 24 * time.Hour)}},
	}}
	r := newTestReporter(tracker, nil)

	entries := []model.StatusEntry{{Issue: issue(42, "MSC42: Finalizing", model.LabelFCP)}}
	got := r.FCPSection(context.Background(), entries)

	assert.Contains(t, got, "[[MSC42]")
	assert.NotContains(t, got, "Ends")
}

func TestFCPSection_CommentFetchFailureOmitsClause(t *testing.T) {
	tracker := &fakeTracker{commentsErr: errors.New("tracker down")}
	r := newTestReporter(tracker, nil)

	entries := []model.StatusEntry{{Issue: issue(42, "MSC42: Finalizing", model.LabelFCP)}}
	got := r.FCPSection(context.Background(), entries)

	assert.Contains(t, got, "[[MSC42]")
	assert.NotContains(t, got, "Ends")
}

func TestGoalProgress(t *testing.T) {
	r := newTestReporter(&fakeTracker{}, nil)

	entries := []model.StatusEntry{
		{Issue: issue(1, "MSC1", model.LabelProposal, model.LabelFinishedFCP)},
		{Issue: issue(2, "MSC2", model.LabelProposal, model.LabelInReview)},
		{Issue: issue(3, "MSC3", model.LabelProposal)},
		{Issue: issue(4, "MSC4", model.LabelProposal, model.LabelFCP)},
	}

	// 1 is finished, 3 carries no active-stage label; 2 and 4 are active.
	got := r.GoalProgress(entries, []int{1, 2, 3, 4})

	assert.Contains(t, got, "Priority MSC progress: 2/4")
}
