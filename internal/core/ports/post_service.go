package ports

import (
	"context"

	"github.com/quillpress/blog-api/internal/core/domain"
)

// CreatePostInput carries the data for a new post.
type CreatePostInput struct {
	AuthorID      string
	Title         string
	Content       string
	Excerpt       string
	Category      string
	Tags          []string
	Status        string
	FeaturedImage string
}

// ListPostsInput carries list parameters plus the (optional) viewer, which
// decides whether drafts may be included.
type ListPostsInput struct {
	Viewer   *domain.User
	Category string
	Author   string
	Tag      string
	Search   string
	Status   string
	Sort     string
	Page     int
	Limit    int
}

// ListPostsResult is a page of posts.
type ListPostsResult struct {
	Items      []*domain.Post
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// LikeResult reports the state after a like toggle.
type LikeResult struct {
	Liked      bool
	LikesCount int
}

type PostService interface {
	CreatePost(ctx context.Context, in CreatePostInput) (*domain.Post, error)
	GetPost(ctx context.Context, id string, viewer *domain.User) (*domain.Post, error)
	GetPostBySlug(ctx context.Context, slug string, viewer *domain.User) (*domain.Post, error)
	ListPosts(ctx context.Context, in ListPostsInput) (*ListPostsResult, error)
	UpdatePost(ctx context.Context, id string, ch domain.PostChanges) (*domain.Post, error)
	DeletePost(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, postID, userID string) (*LikeResult, error)
}
