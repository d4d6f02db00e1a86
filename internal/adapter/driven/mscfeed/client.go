// Package mscfeed implements the ReviewFeed port against the MSC review
// service's HTTP API.
package mscfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/mscbot/internal/domain/model"
	"github.com/ericfisherdev/mscbot/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReviewFeed = (*Client)(nil)

// Client fetches in-flight review records from the review service's
// "/api/all" endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a review-feed client for the given base URL. Responses
// are cached with ETag-based conditional requests.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: httpcache.NewMemoryCacheTransport().Client(),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// feedEntry mirrors the wire shape of one review record. The reviews field is
// an array of two-element [user, approved] tuples, so it is decoded in two
// steps via json.RawMessage.
type feedEntry struct {
	Issue struct {
		Number int `json:"number"`
	} `json:"issue"`
	FCP struct {
		Disposition string  `json:"disposition"`
		FCPStart    *string `json:"fcp_start"`
	} `json:"fcp"`
	Reviews [][2]json.RawMessage `json:"reviews"`
}

// FetchAll retrieves every in-flight review record in one call.
func (c *Client) FetchAll(ctx context.Context) ([]model.ReviewRecord, error) {
	url := c.baseURL + "/api/all"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building review feed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching review feed %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching review feed %s: unexpected status %d", url, resp.StatusCode)
	}

	var entries []feedEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding review feed: %w", err)
	}

	records := make([]model.ReviewRecord, 0, len(entries))
	for _, e := range entries {
		record, err := mapEntry(e)
		if err != nil {
			return nil, fmt.Errorf("decoding review feed entry for issue %d: %w", e.Issue.Number, err)
		}
		records = append(records, record)
	}

	return records, nil
}

// mapEntry converts a wire entry to a domain ReviewRecord.
func mapEntry(e feedEntry) (model.ReviewRecord, error) {
	record := model.ReviewRecord{
		IssueNumber: e.Issue.Number,
		Disposition: model.Disposition(e.FCP.Disposition),
	}

	if e.FCP.FCPStart != nil {
		start, err := time.Parse(time.RFC3339, *e.FCP.FCPStart)
		if err == nil {
			record.FCPStart = &start
		}
		// An unparseable start time is dropped: the FCP section derives its
		// own start from tracker comments anyway.
	}

	for _, pair := range e.Reviews {
		var user struct {
			Login string `json:"login"`
		}
		if err := json.Unmarshal(pair[0], &user); err != nil {
			return model.ReviewRecord{}, fmt.Errorf("decoding reviewer: %w", err)
		}

		var approved bool
		if err := json.Unmarshal(pair[1], &approved); err != nil {
			return model.ReviewRecord{}, fmt.Errorf("decoding approval flag for %s: %w", user.Login, err)
		}

		record.Reviewers = append(record.Reviewers, model.Reviewer{Login: user.Login, Approved: approved})
	}

	return record, nil
}
