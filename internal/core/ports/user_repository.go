package ports

import (
	"context"
	"time"

	"github.com/quillpress/blog-api/internal/core/domain"
)

// UserFilter narrows user listings. Zero values mean "no filter".
type UserFilter struct {
	Search   string // partial match on username, email, first or last name
	Role     string
	IsActive *bool
	Page     int // 1-based
	Limit    int
}

// UserRepository defines persistence for identities.
//
// Only the credential lookups (FindByIdentifier, FindCredentialsByID) return
// the password hash; every other read leaves PasswordHash empty.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIdentifier looks a user up by username or email.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	FindCredentialsByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
	SetRole(ctx context.Context, id, role string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, int64, error)
}
