package reference

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "booking_reference:counter"

// Seeds the counter with the caller's clock the first time the key is used, so
// references keep the millisecond shape, then increments atomically.
var nextCounterScript = redis.NewScript(`
	local key = KEYS[1]
	local seed = tonumber(ARGV[1])

	if redis.call("EXISTS", key) == 0 then
		redis.call("SET", key, seed)
		return seed
	end

	return redis.call("INCR", key)
`)

// RedisSource shares one counter between every process pointed at the same key
// and survives restarts.
type RedisSource struct {
	client redis.UniversalClient
	key    string
	now    func() time.Time
}

func NewRedisSource(client redis.UniversalClient, key string) *RedisSource {
	if key == "" {
		key = DefaultRedisKey
	}

	return &RedisSource{
		client: client,
		key:    key,
		now:    time.Now,
	}
}

func (s *RedisSource) Next(ctx context.Context) (string, error) {
	n, err := nextCounterScript.Run(ctx, s.client, []string{s.key}, s.now().UnixMilli()).Int64()
	if err != nil {
		return "", fmt.Errorf("failed to run reference counter script: %w", err)
	}

	return fmt.Sprintf("%0*d", suffixWidth, n), nil
}
