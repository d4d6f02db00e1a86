// Package driven defines the capability interfaces (driven ports) the
// application depends on.
package driven

import (
	"context"

	"github.com/ericfisherdev/mscbot/internal/domain/model"
)

// Tracker defines the driven port for the issue tracker hosting the proposal
// documents. All methods fetch fresh data; the application holds no cache
// across aggregation passes.
type Tracker interface {
	// ListProposals returns every open issue carrying the proposal label.
	ListProposals(ctx context.Context) ([]model.TrackedIssue, error)
	// ListComments returns an issue's comments ordered oldest first.
	ListComments(ctx context.Context, number int) ([]model.IssueComment, error)
	// ListLabelEvents returns an issue's label-change timeline ordered oldest first.
	ListLabelEvents(ctx context.Context, number int) ([]model.LabelEvent, error)
}
