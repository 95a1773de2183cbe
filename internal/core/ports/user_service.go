package ports

import (
	"context"

	"github.com/quillpress/blog-api/internal/core/domain"
)

// ListUsersResult is a page of users.
type ListUsersResult struct {
	Items      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserService covers admin user management and public profiles.
type UserService interface {
	ListUsers(ctx context.Context, filter UserFilter) (*ListUsersResult, error)
	GetProfile(ctx context.Context, id string) (*domain.User, error)
	SetActive(ctx context.Context, actor *domain.User, id string, active bool) (*domain.User, error)
	SetRole(ctx context.Context, actor *domain.User, id, role string) (*domain.User, error)
}
