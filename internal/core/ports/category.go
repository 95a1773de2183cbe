package ports

import (
	"context"

	"github.com/quillpress/blog-api/internal/core/domain"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, id string, ch domain.CategoryChanges) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

// CreateCategoryInput carries the data for a new category.
type CreateCategoryInput struct {
	Name        string
	Description string
	Color       string
	CreatedBy   string
}

type CategoryService interface {
	CreateCategory(ctx context.Context, in CreateCategoryInput) (*domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, ch domain.CategoryChanges) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}
