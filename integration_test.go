package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offerAPI serves one cheap and one expensive salmon offer and nothing else
func offerAPI(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("searchQuery") != "lachs" {
			w.Write([]byte(`{"_embedded": {"contents": []}}`))
			return
		}
		w.Write([]byte(`{
			"_embedded": {
				"contents": [
					{"content": {
						"id": "a1",
						"publisherName": "REWE",
						"products": [{"name": "Lachsfilet", "brand": {"name": "Followfish"}}],
						"deals": [{"min": "4,50€"}],
						"publicationProfiles": [{"validity": {"endDate": "2024-03-10T00:00:00.000+01:00"}}]
					}},
					{"content": {
						"id": "a2",
						"publisherName": "Edeka",
						"products": [{"name": "Räucherlachs"}],
						"deals": [{"min": 8.99}],
						"publicationProfiles": [{"validity": {"endDate": "2024-03-10T00:00:00.000+01:00"}}]
					}}
				]
			}
		}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func setBaseEnv(t *testing.T, apiURL string) {
	t.Setenv("OFFER_API_URL", apiURL)
	t.Setenv("KEYWORDS", "lachs,cheddar")
	t.Setenv("MAX_PRICE", "5.0")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	t.Setenv("CHAT_ID", "")
	t.Setenv("REDIS_STREAM", "")
	t.Setenv("PUSHGATEWAY_URL", "")
	t.Setenv("LOG_LEVEL", "error")
}

func TestRunWithFileSnapshot(t *testing.T) {
	var calls atomic.Int32
	server := offerAPI(t, &calls)
	snapshotPath := filepath.Join(t.TempDir(), "state", "last_results.json")

	setBaseEnv(t, server.URL)
	t.Setenv("DEDUP_ENABLED", "true")
	t.Setenv("SNAPSHOT_BACKEND", "file")
	t.Setenv("SNAPSHOT_PATH", snapshotPath)

	assert.Equal(t, 0, run())
	assert.Equal(t, int32(2), calls.Load())

	data, err := os.ReadFile(snapshotPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"lachs": ["a1"], "cheddar": []}`, string(data))

	// a second run with unchanged data still succeeds and keeps the state
	assert.Equal(t, 0, run())
	again, err := os.ReadFile(snapshotPath)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestRunFetchFailureIsNotFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	setBaseEnv(t, server.URL)
	t.Setenv("DEDUP_ENABLED", "false")

	assert.Equal(t, 0, run())
}

func TestRunInvalidConfiguration(t *testing.T) {
	var calls atomic.Int32
	server := offerAPI(t, &calls)

	setBaseEnv(t, server.URL)
	t.Setenv("MAX_PRICE", "-1")

	assert.Equal(t, 1, run())
	assert.Zero(t, calls.Load())
}
