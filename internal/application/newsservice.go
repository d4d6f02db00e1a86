package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/mscbot/internal/domain/model"
	"github.com/ericfisherdev/mscbot/internal/domain/port/driven"
)

// approvedLabels and inProgressLabels partition watched label transitions
// into the news digest's buckets; final-comment-period forms the third.
var (
	approvedLabels   = []string{model.LabelFinishedFCP, model.LabelSpecMissing, model.LabelSpecReview, model.LabelMerged}
	inProgressLabels = []string{model.LabelProposal, model.LabelInReview}
)

// Window is a resolved half-open time range [From, Until).
type Window struct {
	From      time.Time
	Until     time.Time
	SinceTWIM bool
}

// NewsService computes label-transition digests over a time window.
type NewsService struct {
	tracker  driven.Tracker
	announce driven.AnnouncementFeed
	now      func() time.Time
}

// NewNewsService creates a NewsService.
func NewNewsService(tracker driven.Tracker, announce driven.AnnouncementFeed) *NewsService {
	return &NewsService{
		tracker:  tracker,
		announce: announce,
		now:      time.Now,
	}
}

// ResolveWindow turns news command arguments into an absolute time window.
// Supported forms: no arguments (the last week), "twim" (since the newest
// announcement-feed entry), "from <time> to <time>", and "since <time>".
// Unresolvable expressions are reported as errors for the user to correct.
func (s *NewsService) ResolveWindow(ctx context.Context, args []string) (Window, error) {
	now := s.now()

	if len(args) == 0 {
		return Window{From: now.AddDate(0, 0, -7), Until: now}, nil
	}

	switch strings.ToLower(args[0]) {
	case "twim":
		published, err := s.announce.LatestPublished(ctx)
		if err != nil {
			return Window{}, fmt.Errorf("unable to determine the last TWIM post date: %w", err)
		}
		return Window{From: published, Until: now, SinceTWIM: true}, nil

	case "from":
		toIdx := -1
		for i, a := range args {
			if strings.EqualFold(a, "to") {
				toIdx = i
				break
			}
		}
		if toIdx < 2 || toIdx == len(args)-1 {
			return Window{}, fmt.Errorf("expected `from <time> to <time>`, got %q", strings.Join(args, " "))
		}
		from, err := ParseInstant(strings.Join(args[1:toIdx], " "), now)
		if err != nil {
			return Window{}, err
		}
		until, err := ParseInstant(strings.Join(args[toIdx+1:], " "), now)
		if err != nil {
			return Window{}, err
		}
		return Window{From: from, Until: until}, nil

	case "since":
		if len(args) == 1 {
			return Window{}, fmt.Errorf("expected `since <time>`")
		}
		from, err := ParseInstant(strings.Join(args[1:], " "), now)
		if err != nil {
			return Window{}, err
		}
		return Window{From: from, Until: now}, nil
	}

	return Window{}, fmt.Errorf("unable to parse %q as a time range", strings.Join(args, " "))
}

// Digest renders the label-transition report for the given entries over the
// window. For each issue only the most recent watched-label addition inside
// [From, Until) counts; the window is half-open, so an event exactly at Until
// is excluded while one exactly at From is included.
func (s *NewsService) Digest(ctx context.Context, w Window, entries []model.StatusEntry, priorityScoped bool) (string, error) {
	type transition struct {
		issue model.TrackedIssue
		label string
	}

	var latest []transition
	for _, e := range entries {
		events, err := s.tracker.ListLabelEvents(ctx, e.Issue.Number)
		if err != nil {
			return "", fmt.Errorf("fetching label events for MSC%d: %w", e.Issue.Number, err)
		}

		var found *transition
		for _, ev := range events {
			if !ev.Added || !watched(ev.Label) {
				continue
			}
			if ev.CreatedAt.Before(w.From) || !ev.CreatedAt.Before(w.Until) {
				continue
			}
			// Later events in the window overwrite earlier ones.
			found = &transition{issue: e.Issue, label: ev.Label}
		}
		if found != nil {
			latest = append(latest, *found)
		}
	}

	var approved, fcp, inProgress []model.TrackedIssue
	for _, tr := range latest {
		switch {
		case contains(approvedLabels, tr.label):
			approved = append(approved, tr.issue)
		case tr.label == model.LabelFCP:
			fcp = append(fcp, tr.issue)
		case contains(inProgressLabels, tr.label):
			inProgress = append(inProgress, tr.issue)
		}
	}

	banner := ""
	if w.SinceTWIM {
		banner = "(last TWIM) "
	}

	var b strings.Builder
	fmt.Fprintf(&b, "News from **%s** %stil **%s**.\n", w.From.Format(time.RFC1123), banner, w.Until.Format(time.RFC1123))
	b.WriteString("\n**Approved MSCs**\n\n")
	b.WriteString(bucket(approved, "*No MSCs have been approved.*"))
	b.WriteString("\n\n**Final Comment Period**\n\n")
	b.WriteString(bucket(fcp, "*No MSCs have entered FCP.*"))
	b.WriteString("\n\n**In Progress MSCs**\n\n")
	b.WriteString(bucket(inProgress, "*No MSCs have been started.*"))

	if priorityScoped {
		b.WriteString("\n\nBe aware that there are priority MSCs enabled in this room, and that you may not be seeing all available MSC news.")
	}

	return b.String(), nil
}

// bucket renders one digest bucket as title-stripped links, or the fixed
// empty sentence.
func bucket(issues []model.TrackedIssue, empty string) string {
	if len(issues) == 0 {
		return empty
	}

	lines := make([]string, len(issues))
	for i, issue := range issues {
		lines[i] = fmt.Sprintf("[[MSC %d]: %s](%s)", issue.Number, stripTitlePrefix(issue.Title, issue.Number), issue.URL)
	}
	return strings.Join(lines, "\n")
}

// stripTitlePrefix removes a leading "MSC123:" / "MSC 123:" echo of the
// issue's own number from its title, e.g. "MSC123: Better events" -> "Better
// events".
func stripTitlePrefix(title string, number int) string {
	num := fmt.Sprintf("%d", number)
	for _, prefix := range []string{"MSC" + num, "MSC " + num} {
		if strings.HasPrefix(title, prefix) {
			title = title[len(prefix):]
			break
		}
	}
	title = strings.TrimPrefix(title, ":")
	return strings.TrimSpace(title)
}

// watched reports whether the label belongs to the fixed watched set.
func watched(label string) bool {
	return contains(model.WatchedLabels, label)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
