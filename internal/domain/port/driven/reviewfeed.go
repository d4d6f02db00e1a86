package driven

import (
	"context"

	"github.com/ericfisherdev/mscbot/internal/domain/model"
)

// ReviewFeed defines the driven port for the external review-status service.
type ReviewFeed interface {
	// FetchAll returns every in-flight review record in one call.
	FetchAll(ctx context.Context) ([]model.ReviewRecord, error)
}
