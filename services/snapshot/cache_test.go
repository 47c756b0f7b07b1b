package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sjsage522/offerwatch/pkg/errors"
	"sjsage522/offerwatch/services/cache"
)

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	cache  map[string][]byte
	getErr error
}

// Ensure MockCacheService implements cache.CacheService
var _ cache.CacheService = (*MockCacheService)(nil)

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{cache: make(map[string][]byte)}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	m.cache[key] = value
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	delete(m.cache, key)
	return nil
}

func TestCacheStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := NewMockCacheService()
	store := NewCacheStore(mock, "offerwatch:snapshot")
	assert.Equal(t, "memcache", store.Name())

	s, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, s)

	want := Snapshot{"lachs": {"a"}, "cheddar": {"x", "y"}}
	require.NoError(t, store.Save(ctx, want))
	assert.Contains(t, mock.cache, "offerwatch:snapshot")

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestCacheStoreErrors(t *testing.T) {
	ctx := context.Background()
	mock := NewMockCacheService()
	store := NewCacheStore(mock, "k")

	mock.cache["k"] = []byte("[1,2")
	_, err := store.Load(ctx)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeSnapshot))

	mock.getErr = errors.New("connection refused")
	_, err = store.Load(ctx)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeSnapshot))
}
