package snapshot

import (
	"context"
	"errors"

	apperrors "sjsage522/offerwatch/pkg/errors"
	"sjsage522/offerwatch/services/cache"
)

// CacheStore keeps the snapshot as one JSON blob in a CacheService.
type CacheStore struct {
	cache cache.CacheService
	key   string
}

// Ensure CacheStore implements Store
var _ Store = (*CacheStore)(nil)

// NewCacheStore creates a cache-backed store
func NewCacheStore(svc cache.CacheService, key string) *CacheStore {
	return &CacheStore{cache: svc, key: key}
}

// Name returns the backend name
func (c *CacheStore) Name() string {
	return "memcache"
}

// Load reads the blob; a cache miss is the first run
func (c *CacheStore) Load(ctx context.Context) (Snapshot, error) {
	data, err := c.cache.Get(c.key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, apperrors.NewSnapshot("cannot read "+c.key, err)
	}

	s, err := decode(data)
	if err != nil {
		return Snapshot{}, apperrors.NewSnapshot("corrupt snapshot "+c.key, err)
	}
	return s, nil
}

// Save overwrites the blob without expiration
func (c *CacheStore) Save(ctx context.Context, s Snapshot) error {
	data, err := encode(s)
	if err != nil {
		return apperrors.NewSnapshot("cannot encode snapshot", err)
	}
	if err := c.cache.Set(c.key, data, 0); err != nil {
		return apperrors.NewSnapshot("cannot write "+c.key, err)
	}
	return nil
}
