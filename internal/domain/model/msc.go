// Package model contains the pure domain types for MSC lifecycle tracking.
package model

import "time"

// Label names used by the proposal workflow on the tracker. The tracker keeps
// these mutually exclusive for the three active stages; the bot relies on that
// convention rather than enforcing it.
const (
	LabelProposal    = "proposal"
	LabelInReview    = "proposal-in-review"
	LabelProposedFCP = "proposed-final-comment-period"
	LabelFCP         = "final-comment-period"
	LabelFinishedFCP = "finished-final-comment-period"
	LabelSpecMissing = "spec-pr-missing"
	LabelSpecReview  = "spec-pr-in-review"
	LabelMerged      = "merged"
)

// WatchedLabels is the fixed set of labels the news digest reports on.
var WatchedLabels = []string{
	LabelProposal,
	LabelInReview,
	LabelProposedFCP,
	LabelFCP,
	LabelFinishedFCP,
	LabelSpecMissing,
	LabelSpecReview,
	LabelMerged,
}

// TrackedIssue is a read-only snapshot of a proposal issue on the tracker.
// Comments and label events are fetched lazily through the Tracker port; the
// snapshot itself carries only what a single listing call returns.
type TrackedIssue struct {
	Number int
	Title  string
	URL    string
	Labels []string
}

// HasLabel reports whether the issue currently carries the named label.
func (i TrackedIssue) HasLabel(name string) bool {
	for _, l := range i.Labels {
		if l == name {
			return true
		}
	}
	return false
}

// IssueComment is a single comment on a tracked issue.
type IssueComment struct {
	Author    string
	Body      string
	CreatedAt time.Time
}

// LabelEvent records one label being added to or removed from an issue.
type LabelEvent struct {
	Label     string
	Added     bool
	CreatedAt time.Time
}
