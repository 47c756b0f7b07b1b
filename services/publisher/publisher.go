package publisher

import (
	"context"

	"sjsage522/offerwatch/internal/offer"
)

// Publisher represents a sink for newly surfaced offers
type Publisher interface {
	// Publish publishes one offer found in the given run
	Publish(ctx context.Context, runID string, o offer.Offer) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams(ctx context.Context) error

	// Close closes the publisher connection
	Close() error
}
