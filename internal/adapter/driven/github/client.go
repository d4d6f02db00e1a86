// Package github implements the Tracker port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/mscbot/internal/domain/model"
	"github.com/ericfisherdev/mscbot/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Tracker = (*Client)(nil)

// Client implements the driven.Tracker port against a single GitHub
// repository holding the proposal issues.
type Client struct {
	gh    *gh.Client
	owner string
	repo  string
}

// NewClient creates a GitHub API client for the given "owner/name" repository
// with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewClient(token, repoFullName string) (*Client, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{gh: client, owner: owner, repo: repo}, nil
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base
// URL. This constructor is intended for testing, allowing injection of an
// httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, repoFullName string) (*Client, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	client := gh.NewClient(httpClient)
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client, owner: owner, repo: repo}, nil
}

// ListProposals retrieves every open issue carrying the proposal label.
// It handles pagination automatically and maps go-github types to domain
// model types.
func (c *Client) ListProposals(ctx context.Context) ([]model.TrackedIssue, error) {
	opts := &gh.IssueListByRepoOptions{
		State:  "open",
		Labels: []string{model.LabelProposal},
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var all []model.TrackedIssue

	for {
		issues, resp, err := c.gh.Issues.ListByRepo(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing proposals for %s/%s (page %d): %w", c.owner, c.repo, opts.ListOptions.Page, err)
		}

		logRateLimit(resp, "issues", opts.ListOptions.Page, len(issues))

		for _, issue := range issues {
			all = append(all, mapIssue(issue))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.ListOptions.Page = resp.NextPage
	}

	if all == nil {
		all = []model.TrackedIssue{}
	}

	return all, nil
}

// ListComments retrieves all comments on an issue, oldest first.
func (c *Client) ListComments(ctx context.Context, number int) ([]model.IssueComment, error) {
	sort := "created"
	direction := "asc"
	opts := &gh.IssueListCommentsOptions{
		Sort:        &sort,
		Direction:   &direction,
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var all []model.IssueComment

	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing comments for %s/%s#%d (page %d): %w", c.owner, c.repo, number, opts.Page, err)
		}

		for _, comment := range comments {
			all = append(all, model.IssueComment{
				Author:    comment.GetUser().GetLogin(),
				Body:      comment.GetBody(),
				CreatedAt: comment.GetCreatedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// ListLabelEvents retrieves an issue's label-change timeline, oldest first.
// Timeline entries that are not "labeled"/"unlabeled" events are skipped.
func (c *Client) ListLabelEvents(ctx context.Context, number int) ([]model.LabelEvent, error) {
	opts := &gh.ListOptions{PerPage: 100}

	var all []model.LabelEvent

	for {
		timeline, resp, err := c.gh.Issues.ListIssueTimeline(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing timeline for %s/%s#%d (page %d): %w", c.owner, c.repo, number, opts.Page, err)
		}

		for _, ev := range timeline {
			switch ev.GetEvent() {
			case "labeled", "unlabeled":
				all = append(all, model.LabelEvent{
					Label:     ev.GetLabel().GetName(),
					Added:     ev.GetEvent() == "labeled",
					CreatedAt: ev.GetCreatedAt().Time,
				})
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// mapIssue converts a go-github Issue to a domain model TrackedIssue.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapIssue(issue *gh.Issue) model.TrackedIssue {
	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.GetName())
	}

	return model.TrackedIssue{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		URL:    issue.GetHTMLURL(),
		Labels: labels,
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
