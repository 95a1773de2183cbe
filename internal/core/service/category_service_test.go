package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
)

func newTestCategoryService() (*CategoryService, *stubCategoryRepo, *stubPostRepo) {
	cats := newStubCategoryRepo()
	posts := newStubPostRepo()
	return NewCategoryService(cats, posts, zerolog.Nop()), cats, posts
}

func TestCategoryService_Create(t *testing.T) {
	svc, _, _ := newTestCategoryService()

	c, err := svc.CreateCategory(context.Background(), ports.CreateCategoryInput{
		Name: "  Web Development ", CreatedBy: admin.ID,
	})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if c.Name != "Web Development" || c.Slug != "web-development" {
		t.Errorf("unexpected name/slug: %q %q", c.Name, c.Slug)
	}
	if c.Color != domain.DefaultCategoryColor {
		t.Errorf("expected default color, got %q", c.Color)
	}

	_, err = svc.CreateCategory(context.Background(), ports.CreateCategoryInput{Name: "Web Development", CreatedBy: admin.ID})
	var de *domain.Error
	if !errors.As(err, &de) || de.Kind != domain.KindDuplicateKey || de.Field != "name" {
		t.Fatalf("expected duplicate name, got %v", err)
	}
}

func TestCategoryService_Create_NameWithoutSlug(t *testing.T) {
	svc, _, _ := newTestCategoryService()

	_, err := svc.CreateCategory(context.Background(), ports.CreateCategoryInput{Name: "!!", CreatedBy: admin.ID})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCategoryService_PostCounts(t *testing.T) {
	svc, _, posts := newTestCategoryService()
	ctx := context.Background()
	c, _ := svc.CreateCategory(ctx, ports.CreateCategoryInput{Name: "Go", CreatedBy: admin.ID})
	other, _ := svc.CreateCategory(ctx, ports.CreateCategoryInput{Name: "Rust", CreatedBy: admin.ID})

	_ = posts.Create(ctx, &domain.Post{Slug: "a", Category: c.ID})
	_ = posts.Create(ctx, &domain.Post{Slug: "b", Category: c.ID})

	got, err := svc.GetCategory(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCategory: %v", err)
	}
	if got.PostCount != 2 {
		t.Errorf("expected 2 posts, got %d", got.PostCount)
	}

	list, err := svc.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	counts := map[string]int64{}
	for _, item := range list {
		counts[item.ID] = item.PostCount
	}
	if counts[c.ID] != 2 || counts[other.ID] != 0 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestCategoryService_Delete(t *testing.T) {
	svc, cats, posts := newTestCategoryService()
	ctx := context.Background()
	used, _ := svc.CreateCategory(ctx, ports.CreateCategoryInput{Name: "Used", CreatedBy: admin.ID})
	empty, _ := svc.CreateCategory(ctx, ports.CreateCategoryInput{Name: "Empty", CreatedBy: admin.ID})
	_ = posts.Create(ctx, &domain.Post{Slug: "a", Category: used.ID})

	if err := svc.DeleteCategory(ctx, used.ID); domain.KindOf(err) != domain.KindBadRequest {
		t.Fatalf("expected bad request for category with posts, got %v", err)
	}
	if err := svc.DeleteCategory(ctx, empty.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if _, ok := cats.cats[empty.ID]; ok {
		t.Error("category should be gone")
	}
	if err := svc.DeleteCategory(ctx, "c404"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCategoryService_Update_Reslugs(t *testing.T) {
	svc, _, _ := newTestCategoryService()
	ctx := context.Background()
	c, _ := svc.CreateCategory(ctx, ports.CreateCategoryInput{Name: "Old Name", CreatedBy: admin.ID})

	got, err := svc.UpdateCategory(ctx, c.ID, domain.CategoryChanges{Name: strPtr("New Name")})
	if err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if got.Slug != "new-name" {
		t.Errorf("expected slug new-name, got %q", got.Slug)
	}
}
