package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
	"github.com/quillpress/blog-api/internal/pkg/metrics"
)

// ViewDedup abstracts the view deduplication store (Redis).
type ViewDedup interface {
	// MarkIfNew records the view and reports whether it was not seen before.
	MarkIfNew(ctx context.Context, postID, viewerID string) (bool, error)
}

type viewService struct {
	counter ports.ViewCounter
	dedup   ViewDedup
	log     zerolog.Logger
}

// NewViewService returns a ViewService implementation.
func NewViewService(counter ports.ViewCounter, dedup ViewDedup, log zerolog.Logger) ports.ViewService {
	return &viewService{counter: counter, dedup: dedup, log: log}
}

// Process counts a view once per viewer per dedup window.
func (s *viewService) Process(ctx context.Context, v domain.PostView) error {
	start := time.Now()

	// 1. Dedup: a store failure counts the view anyway.
	isNew, err := s.dedup.MarkIfNew(ctx, v.PostID, v.ViewerID)
	if err != nil {
		s.log.Warn().Err(err).Str("post_id", v.PostID).Msg("view dedup failed, counting anyway")
		isNew = true
	}
	if !isNew {
		metrics.PostViewsTotal.WithLabelValues("duplicate").Inc()
		return nil
	}

	// 2. Persist.
	if err := s.counter.IncrementViews(ctx, v.PostID, 1); err != nil {
		metrics.PostViewsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("process view: %w", err)
	}

	metrics.PostViewsTotal.WithLabelValues("counted").Inc()
	metrics.ViewProcessingDuration.Observe(time.Since(start).Seconds())
	s.log.Debug().Str("post_id", v.PostID).Msg("view counted")
	return nil
}
