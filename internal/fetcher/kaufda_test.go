package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/offerwatch/internal/offer"
	"sjsage522/offerwatch/logger"
	apperrors "sjsage522/offerwatch/pkg/errors"
)

const searchBody = `{
	"_embedded": {
		"contents": [
			{
				"content": {
					"id": "a1",
					"publisherName": "REWE",
					"products": [{"name": "Lachsfilet", "brand": {"name": "Followfish"}}],
					"deals": [{"min": 4.49}],
					"publicationProfiles": [{"validity": {"endDate": "2024-03-10T00:00:00.000+01:00"}}]
				}
			},
			"garbage"
		]
	}
}`

func TestKaufdaFetcher(t *testing.T) {
	logger.Default = logger.Nop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lachs", r.URL.Query().Get("searchQuery"))
		assert.Equal(t, "52.4669", r.URL.Query().Get("lat"))
		assert.Equal(t, "13.4299", r.URL.Query().Get("lng"))
		assert.Equal(t, "25", r.URL.Query().Get("size"))
		assert.Equal(t, "dest.kaufda", r.Header.Get("delivery_channel"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchBody))
	}))
	defer server.Close()

	f := NewKaufdaFetcher(server.URL, SearchParams{Lat: 52.4669, Lng: 13.4299, Size: 25}, time.Second)
	assert.Equal(t, "kaufda", f.GetName())

	items, err := f.FetchOffers(context.Background(), "lachs")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Nil(t, items[1])

	offers, rejected := offer.NormalizeBatch("lachs", items)
	require.Len(t, offers, 1)
	assert.Len(t, rejected, 1)

	// numbers survive as exact json numbers
	price, ok := offer.ParsePrice(offers[0].PriceRaw)
	require.True(t, ok)
	assert.Equal(t, 4.49, price)
}

func TestKaufdaFetcherEmptyResult(t *testing.T) {
	logger.Default = logger.Nop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"_embedded": {}}`))
	}))
	defer server.Close()

	f := NewKaufdaFetcher(server.URL, SearchParams{Size: 25}, time.Second)
	items, err := f.FetchOffers(context.Background(), "cheddar")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestKaufdaFetcherErrors(t *testing.T) {
	logger.Default = logger.Nop()

	invalid := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer invalid.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer slow.Close()

	for name, url := range map[string]string{"invalid json": invalid.URL, "bad status": failing.URL, "timeout": slow.URL} {
		t.Run(name, func(t *testing.T) {
			f := NewKaufdaFetcher(url, SearchParams{Size: 25}, 50*time.Millisecond)
			_, err := f.FetchOffers(context.Background(), "lachs")
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeFetch))
		})
	}
}
