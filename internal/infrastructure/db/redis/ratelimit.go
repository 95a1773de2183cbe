package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateLimitStore is a fixed-window request counter shared by all API
// instances. It satisfies echo's middleware.RateLimiterStore.
// Key format: ratelimit:<identifier>:<window_start_unix>
type RateLimitStore struct {
	client *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

// NewRateLimitStore allows limit requests per identifier per window.
func NewRateLimitStore(client *redis.Client, limit int, window time.Duration, log zerolog.Logger) *RateLimitStore {
	if limit <= 0 {
		limit = 20
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimitStore{
		client: client,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
		log:    log,
	}
}

// Allow increments the identifier's counter for the current window. Redis
// failures allow the request so an outage does not lock users out.
func (s *RateLimitStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	key := s.key(identifier)
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Str("identifier", identifier).Msg("rate limit store unavailable, allowing request")
		return true, nil
	}
	return incr.Val() <= s.limit, nil
}

func (s *RateLimitStore) key(identifier string) string {
	windowStart := s.now().Truncate(s.window).Unix()
	return fmt.Sprintf("ratelimit:%s:%d", identifier, windowStart)
}
