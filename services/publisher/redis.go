package publisher

import (
	"context"
	"encoding/base64"
	"math/rand/v2"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"sjsage522/offerwatch/internal/offer"
	apperrors "sjsage522/offerwatch/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RedisPublisher implements Publisher using Redis streams
type RedisPublisher struct {
	client          *redis.Client
	streamPrefix    string
	streamCount     int
	streamMaxLength int
}

// Ensure RedisPublisher implements Publisher
var _ Publisher = (*RedisPublisher)(nil)

// NewRedisPublisher creates a new Redis publisher
func NewRedisPublisher(client *redis.Client, streamPrefix string, streamCount int, streamMaxLength int) *RedisPublisher {
	if streamCount <= 0 {
		streamCount = 1
	}
	return &RedisPublisher{
		client:          client,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
	}
}

// streamName picks one of streamCount shards: prefix:0 ~ prefix:n-1
func (p *RedisPublisher) streamName() string {
	return p.streamPrefix + ":" + strconv.Itoa(rand.IntN(p.streamCount))
}

// EncodeOffer renders the stream entry fields for an offer; the offer
// itself is base64 encoded JSON.
func EncodeOffer(runID string, o offer.Offer) (map[string]interface{}, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"run_id":    runID,
		"keyword":   o.Keyword,
		"b64_offer": base64.StdEncoding.EncodeToString(data),
	}, nil
}

// Publish adds the offer to a randomly chosen stream shard
func (p *RedisPublisher) Publish(ctx context.Context, runID string, o offer.Offer) error {
	values, err := EncodeOffer(runID, o)
	if err != nil {
		return apperrors.NewPublisher(o.Keyword, "cannot encode offer", err)
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.streamName(),
		Values: values,
	}).Err(); err != nil {
		return apperrors.NewPublisher(o.Keyword, "cannot publish offer", err)
	}
	return nil
}

// TrimStreams trims all streams to the configured maximum length
func (p *RedisPublisher) TrimStreams(ctx context.Context) error {
	for i := 0; i < p.streamCount; i++ {
		stream := p.streamPrefix + ":" + strconv.Itoa(i)
		if err := p.client.XTrimMaxLen(ctx, stream, int64(p.streamMaxLength)).Err(); err != nil {
			return apperrors.NewPublisher("", "cannot trim "+stream, err)
		}
	}
	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
