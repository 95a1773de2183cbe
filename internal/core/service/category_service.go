package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
)

type CategoryService struct {
	repo  ports.CategoryRepository
	posts ports.PostRepository
	log   zerolog.Logger
	now   func() time.Time
}

func NewCategoryService(repo ports.CategoryRepository, posts ports.PostRepository, log zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, posts: posts, log: log, now: time.Now}
}

func (s *CategoryService) CreateCategory(ctx context.Context, in ports.CreateCategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	color := in.Color
	if color == "" {
		color = domain.DefaultCategoryColor
	}

	now := s.now().UTC()
	c := &domain.Category{
		Name:        name,
		Slug:        slugify(name),
		Description: strings.TrimSpace(in.Description),
		Color:       color,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if c.Slug == "" {
		return nil, domain.ValidationFailed([]domain.Violation{{
			Field: "name", Rule: "slug", Message: "name must contain at least one letter or digit",
		}})
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info().Str("category_id", c.ID).Str("name", c.Name).Msg("category created")
	return c, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	n, err := s.posts.CountByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	c.PostCount = n
	return c, nil
}

// ListCategories returns all categories with their post counts.
func (s *CategoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.posts.CountsByCategory(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range items {
		c.PostCount = counts[c.ID]
	}
	return items, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id string, ch domain.CategoryChanges) (*domain.Category, error) {
	if ch.Name != nil {
		name := strings.TrimSpace(*ch.Name)
		slug := slugify(name)
		if slug == "" {
			return nil, domain.ValidationFailed([]domain.Violation{{
				Field: "name", Rule: "slug", Message: "name must contain at least one letter or digit",
			}})
		}
		ch.Name = &name
		ch.Slug = &slug
	}

	c, err := s.repo.Update(ctx, id, ch)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("category_id", id).Msg("category updated")
	return c, nil
}

// DeleteCategory refuses to remove a category that still has posts.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	n, err := s.posts.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.BadRequest("Cannot delete category with existing posts")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("category_id", id).Msg("category deleted")
	return nil
}
