// Package rss implements the AnnouncementFeed port over an RSS/Atom feed.
package rss

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/ericfisherdev/mscbot/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AnnouncementFeed = (*Feed)(nil)

// Feed reads the announcement feed the news digest's "since last
// announcement" mode anchors on.
type Feed struct {
	parser *gofeed.Parser
	url    string
}

// NewFeed creates a Feed for the given feed URL.
func NewFeed(url string) *Feed {
	return &Feed{parser: gofeed.NewParser(), url: url}
}

// LatestPublished returns the publish time of the feed's newest entry.
// Feed entries are assumed newest-first, as published by the blog.
func (f *Feed) LatestPublished(ctx context.Context) (time.Time, error) {
	feed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing announcement feed %s: %w", f.url, err)
	}

	if len(feed.Items) == 0 {
		return time.Time{}, fmt.Errorf("announcement feed %s has no entries", f.url)
	}

	item := feed.Items[0]
	if item.PublishedParsed == nil {
		return time.Time{}, fmt.Errorf("announcement feed entry %q has no publish date", item.Title)
	}

	return *item.PublishedParsed, nil
}
