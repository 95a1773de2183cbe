package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDedupTTL = time.Hour

// ViewDedup remembers which viewer has already been counted for a post.
// Key format: view:<post_id>:<viewer_id>
type ViewDedup struct {
	client *redis.Client
	ttl    time.Duration
}

// NewViewDedup creates a ViewDedup wrapping the given Redis client.
// A non-positive ttl falls back to one hour.
func NewViewDedup(client *redis.Client, ttl time.Duration) *ViewDedup {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &ViewDedup{client: client, ttl: ttl}
}

// MarkIfNew sets the key only if absent and reports whether it was set.
func (d *ViewDedup) MarkIfNew(ctx context.Context, postID, viewerID string) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(postID, viewerID), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("view dedup: %w", err)
	}
	return ok, nil
}

func (d *ViewDedup) key(postID, viewerID string) string {
	return fmt.Sprintf("view:%s:%s", postID, viewerID)
}
