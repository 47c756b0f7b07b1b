package fetcher

import (
	"context"

	"sjsage522/offerwatch/internal/offer"
)

// Fetcher queries the offer API for a single keyword.
type Fetcher interface {
	// FetchOffers returns the raw result items for keyword
	FetchOffers(ctx context.Context, keyword string) ([]offer.RawItem, error)

	// GetName returns the fetcher's name for logging and identification
	GetName() string
}

// SearchParams are the fixed query parameters sent with every keyword.
type SearchParams struct {
	Lat  float64
	Lng  float64
	Size int
}
