package model

import "sort"

// StatusEntry is the unified view of one proposal built per aggregation pass:
// the tracker snapshot plus, for proposals in proposed FCP, the matching
// review-feed record. Review is nil when no feed record matched (a valid
// state -- the feed may lag the tracker).
type StatusEntry struct {
	Issue  TrackedIssue
	Review *ReviewRecord
}

// InProgress reports whether the proposal is still in the discussion phase.
func (e StatusEntry) InProgress() bool {
	return e.Issue.HasLabel(LabelInReview)
}

// PendingFCP reports whether the proposal is awaiting reviewer sign-off for a
// final comment period. A feed record is required: without one there is
// nothing to report about outstanding reviewers.
func (e StatusEntry) PendingFCP() bool {
	return e.Issue.HasLabel(LabelProposedFCP) && e.Review != nil
}

// InFCP reports whether the proposal is currently in its final comment period.
func (e StatusEntry) InFCP() bool {
	return e.Issue.HasLabel(LabelFCP)
}

// Concluded reports whether the proposal counts as finished for goal-progress
// purposes: it carries none of the three active-stage labels, or it has
// finished its final comment period.
func (e StatusEntry) Concluded() bool {
	if e.Issue.HasLabel(LabelFinishedFCP) {
		return true
	}
	return !e.Issue.HasLabel(LabelInReview) &&
		!e.Issue.HasLabel(LabelProposedFCP) &&
		!e.Issue.HasLabel(LabelFCP)
}

// SortByNumber orders entries by issue number ascending, in place.
func SortByNumber(entries []StatusEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Issue.Number < entries[j].Issue.Number
	})
}
