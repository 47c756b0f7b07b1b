package snapshot

import (
	"context"

	"github.com/redis/go-redis/v9"

	"sjsage522/offerwatch/logger"
	apperrors "sjsage522/offerwatch/pkg/errors"
)

// RedisStore keeps the snapshot in a redis hash: one field per keyword,
// each holding a JSON list of identifiers.
type RedisStore struct {
	client *redis.Client
	key    string
}

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a redis-backed store
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Name returns the backend name
func (r *RedisStore) Name() string {
	return "redis"
}

// Load reads every keyword field of the hash
func (r *RedisStore) Load(ctx context.Context) (Snapshot, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return Snapshot{}, apperrors.NewSnapshot("cannot read "+r.key, err)
	}

	s := make(Snapshot, len(fields))
	for keyword, raw := range fields {
		var ids []string
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			logger.ForStore().Warn().Str("keyword", keyword).Err(err).Msg("Skipping corrupt snapshot field")
			continue
		}
		s[keyword] = ids
	}
	return s.rekey(), nil
}

// Save replaces the whole hash in one transaction
func (r *RedisStore) Save(ctx context.Context, s Snapshot) error {
	values := make(map[string]interface{}, len(s))
	for keyword, ids := range s {
		if ids == nil {
			ids = []string{}
		}
		data, err := json.Marshal(ids)
		if err != nil {
			return apperrors.NewSnapshot("cannot encode snapshot", err)
		}
		values[keyword] = string(data)
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		if len(values) > 0 {
			pipe.HSet(ctx, r.key, values)
		}
		return nil
	})
	if err != nil {
		return apperrors.NewSnapshot("cannot write "+r.key, err)
	}
	return nil
}
