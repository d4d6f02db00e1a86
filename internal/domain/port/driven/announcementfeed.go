package driven

import (
	"context"
	"time"
)

// AnnouncementFeed defines the driven port for the announcement feed used by
// the news digest's "since last announcement" mode.
type AnnouncementFeed interface {
	// LatestPublished returns the publish time of the feed's newest entry.
	LatestPublished(ctx context.Context) (time.Time, error)
}
