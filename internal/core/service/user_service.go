package service

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
)

const (
	defaultPageSize = 10
	maxUserPageSize = 100
)

type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

func (s *UserService) ListUsers(ctx context.Context, filter ports.UserFilter) (*ports.ListUsersResult, error) {
	page, limit, err := normalizePage(filter.Page, filter.Limit, maxUserPageSize)
	if err != nil {
		return nil, err
	}
	filter.Page, filter.Limit = page, limit

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.ListUsersResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// GetProfile returns the public view of an active user.
func (s *UserService) GetProfile(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.NotFound("User not found")
	}
	return user.Public(), nil
}

func (s *UserService) SetActive(ctx context.Context, actor *domain.User, id string, active bool) (*domain.User, error) {
	if actor != nil && actor.ID == id && !active {
		return nil, domain.BadRequest("You cannot deactivate your own account")
	}
	user, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", id).Bool("is_active", active).Str("actor", actorID(actor)).Msg("user status changed")
	return user, nil
}

func (s *UserService) SetRole(ctx context.Context, actor *domain.User, id, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ValidationFailed([]domain.Violation{{
			Field: "role", Rule: "oneof", Param: "user admin", Message: "role must be one of: user admin",
		}})
	}
	if actor != nil && actor.ID == id && role != domain.RoleAdmin {
		return nil, domain.BadRequest("You cannot remove your own admin role")
	}
	user, err := s.repo.SetRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", id).Str("role", role).Str("actor", actorID(actor)).Msg("user role changed")
	return user, nil
}

func actorID(u *domain.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}

// normalizePage clamps pagination parameters to sane bounds. A page whose
// offset would not fit in an int64 is rejected.
func normalizePage(page, limit, max int) (int, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > max {
		limit = max
	}
	if int64(page-1) > math.MaxInt64/int64(limit) {
		return 0, 0, domain.BadRequest("page out of range")
	}
	return page, limit, nil
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
