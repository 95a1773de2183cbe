package ports

import (
	"context"

	"github.com/quillpress/blog-api/internal/core/domain"
)

// ViewCounter applies view increments to storage.
type ViewCounter interface {
	IncrementViews(ctx context.Context, postID string, n int64) error
}

// ViewService processes a single post view.
type ViewService interface {
	Process(ctx context.Context, view domain.PostView) error
}

// ViewRecorder accepts views for asynchronous processing.
type ViewRecorder interface {
	Record(view domain.PostView)
}
