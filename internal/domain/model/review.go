package model

import "time"

// Disposition is the review feed's recorded outcome intent for a proposal.
type Disposition string

// Dispositions reported by the review feed.
const (
	DispositionMerge    Disposition = "merge"
	DispositionClose    Disposition = "close"
	DispositionPostpone Disposition = "postpone"
)

// Reviewer pairs a reviewer login with whether they have signed off on the
// proposed final comment period.
type Reviewer struct {
	Login    string
	Approved bool
}

// ReviewRecord is one in-flight entry from the external review-status feed,
// linked to a tracked issue by number.
type ReviewRecord struct {
	IssueNumber int
	Disposition Disposition
	Reviewers   []Reviewer
	FCPStart    *time.Time
}

// PendingReviewers returns the logins of reviewers who have not yet approved,
// in feed order.
func (r ReviewRecord) PendingReviewers() []string {
	var pending []string
	for _, rev := range r.Reviewers {
		if !rev.Approved {
			pending = append(pending, rev.Login)
		}
	}
	return pending
}
