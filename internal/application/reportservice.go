package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ericfisherdev/mscbot/internal/domain/model"
	"github.com/ericfisherdev/mscbot/internal/domain/port/driven"
)

// emptySection is rendered under a stage header with no matching MSCs, so
// composite reports always show all three headers.
const emptySection = "No MSCs in this category."

// Reporter renders status lists into the markdown sections of a digest.
type Reporter struct {
	tracker       driven.Tracker
	fcpLengthDays int
	botLogin      string
	mentions      map[string]string
	now           func() time.Time
}

// NewReporter creates a Reporter. mentions maps tracker logins to chat
// mentions and may be nil; unmapped logins pass through unchanged.
func NewReporter(tracker driven.Tracker, fcpLengthDays int, botLogin string, mentions map[string]string) *Reporter {
	return &Reporter{
		tracker:       tracker,
		fcpLengthDays: fcpLengthDays,
		botLogin:      botLogin,
		mentions:      mentions,
		now:           time.Now,
	}
}

// InProgressSection renders the proposals still in the discussion phase.
func (r *Reporter) InProgressSection(entries []model.StatusEntry) string {
	var lines []string
	for _, e := range entries {
		if !e.InProgress() {
			continue
		}
		lines = append(lines, issueLink(e.Issue))
	}

	return section("In Progress", lines)
}

// PendingSection renders the proposals awaiting reviewer sign-off for an FCP,
// listing every reviewer who has yet to approve. When reviewerFilter is
// non-empty, only proposals still waiting on that login are included.
func (r *Reporter) PendingSection(entries []model.StatusEntry, reviewerFilter string) string {
	var lines []string
	for _, e := range entries {
		if !e.PendingFCP() {
			continue
		}

		pending := e.Review.PendingReviewers()
		if reviewerFilter != "" && !containsFold(pending, reviewerFilter) {
			continue
		}

		line := fmt.Sprintf("%s - *%s*", issueLink(e.Issue), e.Review.Disposition)
		line += fmt.Sprintf("\n\nTo review: %s", strings.Join(r.mentionAll(pending), ", "))
		lines = append(lines, line)
	}

	return section("Pending Final Comment Period", lines)
}

// FCPSection renders the proposals currently in their final comment period
// with the days remaining. The FCP clock is inferred from the newest tracker
// comment by the review bot; when that comment cannot be found (or fetched)
// the proposal is rendered without a remaining-days clause rather than
// failing the whole report.
func (r *Reporter) FCPSection(ctx context.Context, entries []model.StatusEntry) string {
	var lines []string
	for _, e := range entries {
		if !e.InFCP() {
			continue
		}

		line := issueLink(e.Issue)
		if remaining, ok := r.remainingDays(ctx, e.Issue.Number); ok {
			if remaining > 1 {
				line += fmt.Sprintf(" - Ends in **%d days**", remaining)
			} else if remaining == 1 {
				line += " - Ends in **1 day**"
			} else {
				line += " - Ends **today**"
			}
		}
		lines = append(lines, line)
	}

	return section("In Final Comment Period", lines)
}

// Composite renders the full three-section report over a number-sorted copy
// of the status list, in the fixed order in-progress, pending, in-FCP.
func (r *Reporter) Composite(ctx context.Context, entries []model.StatusEntry) string {
	sorted := make([]model.StatusEntry, len(entries))
	copy(sorted, entries)
	model.SortByNumber(sorted)

	var b strings.Builder
	b.WriteString("# Today's MSC Status\n")
	b.WriteString(r.InProgressSection(sorted))
	b.WriteString(r.PendingSection(sorted, ""))
	b.WriteString(r.FCPSection(ctx, sorted))
	return b.String()
}

// GoalProgress returns the "completed/total" progress line for a room's
// priority MSCs. Priority issues absent from the entries (e.g. closed, so no
// longer listed by the tracker) are not counted as completed.
func (r *Reporter) GoalProgress(entries []model.StatusEntry, priority []int) string {
	wanted := make(map[int]bool, len(priority))
	for _, n := range priority {
		wanted[n] = true
	}

	var completed int
	for _, e := range entries {
		if wanted[e.Issue.Number] && e.Concluded() {
			completed++
		}
	}

	return fmt.Sprintf("\n\nPriority MSC progress: %d/%d", completed, len(priority))
}

// remainingDays infers how many days the issue's FCP has left. The review bot
// announces the FCP with a comment one day after the window opens, and the
// announcement day counts against the window, so elapsed time is measured
// from the newest bot comment.
func (r *Reporter) remainingDays(ctx context.Context, number int) (int, bool) {
	comments, err := r.tracker.ListComments(ctx, number)
	if err != nil {
		slog.Warn("unable to fetch comments for FCP timing", "issue", number, "error", err)
		return 0, false
	}

	for i := len(comments) - 1; i >= 0; i-- {
		if strings.EqualFold(comments[i].Author, r.botLogin) {
			elapsed := int(r.now().Sub(comments[i].CreatedAt).Hours() / 24)
			return r.fcpLengthDays - elapsed, true
		}
	}

	return 0, false
}

// mentionAll maps tracker logins through the mention table, passing unmapped
// logins through unchanged.
func (r *Reporter) mentionAll(logins []string) []string {
	out := make([]string, len(logins))
	for i, login := range logins {
		if mention, ok := r.mentions[login]; ok {
			out[i] = mention
		} else {
			out[i] = login
		}
	}
	return out
}

// issueLink renders the standard "[[MSC123](url)] - Title" fragment.
func issueLink(issue model.TrackedIssue) string {
	return fmt.Sprintf("[[MSC%d](%s)] - %s", issue.Number, issue.URL, issue.Title)
}

// section renders a titled markdown section, or the fixed empty sentence.
func section(title string, lines []string) string {
	body := emptySection
	if len(lines) > 0 {
		body = strings.Join(lines, "\n\n")
	}
	return fmt.Sprintf("\n\n**%s**\n\n%s", title, body)
}

// containsFold reports whether list contains s, ignoring case.
func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
