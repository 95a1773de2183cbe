package ports

import (
	"context"

	"github.com/quillpress/blog-api/internal/core/domain"
)

const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortPopular = "popular"
)

// PostFilter carries the query parameters for listing posts.
type PostFilter struct {
	Category string // category id
	Author   string // author id
	Tag      string
	Search   string // partial match on title, excerpt or tags
	Status   string // empty = any status
	Sort     string // newest (default), oldest, popular
	Page     int    // 1-based
	Limit    int
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) error
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Post, error)
	Update(ctx context.Context, id string, ch domain.PostChanges) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter PostFilter) ([]*domain.Post, int64, error)
	// AddLike and RemoveLike are idempotent and return the updated post.
	AddLike(ctx context.Context, postID, userID string) (*domain.Post, error)
	RemoveLike(ctx context.Context, postID, userID string) (*domain.Post, error)
	IncrementViews(ctx context.Context, postID string, n int64) error
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
	CountsByCategory(ctx context.Context) (map[string]int64, error)
}
