package fetcher

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	"sjsage522/offerwatch/helpers"
	"sjsage522/offerwatch/internal/offer"
	"sjsage522/offerwatch/logger"
	apperrors "sjsage522/offerwatch/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// KaufdaFetcher queries the kaufda offer search endpoint
type KaufdaFetcher struct {
	URL     string
	Params  SearchParams
	Headers map[string]string
	client  *http.Client
}

// Ensure KaufdaFetcher implements Fetcher
var _ Fetcher = (*KaufdaFetcher)(nil)

// NewKaufdaFetcher creates a fetcher whose every request is bounded by timeout
func NewKaufdaFetcher(apiURL string, params SearchParams, timeout time.Duration) *KaufdaFetcher {
	return &KaufdaFetcher{
		URL:     apiURL,
		Params:  params,
		Headers: helpers.BrowserHeaders,
		client:  helpers.NewHTTPClient(timeout),
	}
}

// GetName returns the fetcher name
func (f *KaufdaFetcher) GetName() string {
	return "kaufda"
}

// searchResponse is the envelope of the search endpoint; items stay untyped.
type searchResponse struct {
	Embedded struct {
		Contents []any `json:"contents"`
	} `json:"_embedded"`
}

// FetchOffers issues one search request and returns its result items.
func (f *KaufdaFetcher) FetchOffers(ctx context.Context, keyword string) ([]offer.RawItem, error) {
	log := logger.ForFetcher().WithStr("keyword", keyword)

	query := url.Values{
		"searchQuery": {keyword},
		"lat":         {strconv.FormatFloat(f.Params.Lat, 'f', -1, 64)},
		"lng":         {strconv.FormatFloat(f.Params.Lng, 'f', -1, 64)},
		"size":        {strconv.Itoa(f.Params.Size)},
	}

	log.Debug().Str("url", f.URL).Msg("Fetching offers")

	body, err := helpers.FetchJSON(ctx, f.client, f.URL, query, f.Headers)
	if err != nil {
		return nil, apperrors.NewFetch(keyword, "API request failed", err)
	}

	items, err := decodeContents(body)
	if err != nil {
		return nil, apperrors.NewFetch(keyword, "invalid JSON response", err)
	}

	log.Debug().Int("items", len(items)).Msg("Fetched offers")
	return items, nil
}

// decodeContents extracts _embedded.contents. Entries that are not JSON
// objects become nil items and are rejected later by the normalizer.
func decodeContents(body []byte) ([]offer.RawItem, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var resp searchResponse
	if err := dec.Decode(&resp); err != nil {
		return nil, err
	}

	items := make([]offer.RawItem, 0, len(resp.Embedded.Contents))
	for _, c := range resp.Embedded.Contents {
		m, _ := c.(map[string]any)
		items = append(items, offer.RawItem(m))
	}
	return items, nil
}
