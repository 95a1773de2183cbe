package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
)

func newTestPostService() (*PostService, *stubPostRepo, *stubCategoryRepo) {
	posts := newStubPostRepo()
	cats := newStubCategoryRepo()
	return NewPostService(posts, cats, zerolog.Nop()), posts, cats
}

var (
	author = &domain.User{ID: "u001", Role: domain.RoleUser, IsActive: true}
	reader = &domain.User{ID: "u002", Role: domain.RoleUser, IsActive: true}
	admin  = &domain.User{ID: "u999", Role: domain.RoleAdmin, IsActive: true}
)

func createPost(t *testing.T, svc *PostService, status string) *domain.Post {
	t.Helper()
	p, err := svc.CreatePost(context.Background(), ports.CreatePostInput{
		AuthorID: author.ID,
		Title:    "Hello, World!",
		Content:  "Some long enough content for a post.",
		Tags:     []string{" Go ", "go", "Web"},
		Status:   status,
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	return p
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestPostService_CreatePost_Defaults(t *testing.T) {
	svc, _, _ := newTestPostService()

	p := createPost(t, svc, "")

	if p.Status != domain.PostPublished {
		t.Errorf("expected default status published, got %q", p.Status)
	}
	if p.PublishedAt == nil {
		t.Error("published post must have publishedAt")
	}
	if !strings.HasPrefix(p.Slug, "hello-world-") {
		t.Errorf("unexpected slug %q", p.Slug)
	}
	if p.Excerpt != "Some long enough content for a post." {
		t.Errorf("expected excerpt derived from content, got %q", p.Excerpt)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "go" || p.Tags[1] != "web" {
		t.Errorf("expected normalized tags [go web], got %v", p.Tags)
	}
}

func TestPostService_CreatePost_Draft(t *testing.T) {
	svc, _, _ := newTestPostService()

	p := createPost(t, svc, "draft")
	if p.PublishedAt != nil {
		t.Error("draft must not have publishedAt")
	}
}

func TestPostService_CreatePost_UnknownCategory(t *testing.T) {
	svc, _, _ := newTestPostService()

	_, err := svc.CreatePost(context.Background(), ports.CreatePostInput{
		AuthorID: author.ID, Title: "Valid title", Content: "Valid content here", Category: "c404",
	})
	var de *domain.Error
	if !errors.As(err, &de) || de.Kind != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if de.Violations[0].Field != "category" {
		t.Errorf("expected category violation, got %+v", de.Violations)
	}
}

// ---------------------------------------------------------------------------
// Visibility
// ---------------------------------------------------------------------------

func TestPostService_GetPost_DraftVisibility(t *testing.T) {
	svc, _, _ := newTestPostService()
	draft := createPost(t, svc, "draft")
	ctx := context.Background()

	for name, viewer := range map[string]*domain.User{"anonymous": nil, "other user": reader} {
		if _, err := svc.GetPost(ctx, draft.ID, viewer); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("%s: expected not found, got %v", name, err)
		}
	}
	for name, viewer := range map[string]*domain.User{"author": author, "admin": admin} {
		if _, err := svc.GetPost(ctx, draft.ID, viewer); err != nil {
			t.Errorf("%s: expected draft to be visible, got %v", name, err)
		}
	}

	if _, err := svc.GetPostBySlug(ctx, draft.Slug, nil); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found by slug, got %v", err)
	}
}

func TestPostService_ListPosts_DraftRules(t *testing.T) {
	svc, repo, _ := newTestPostService()
	createPost(t, svc, "draft")
	createPost(t, svc, "published")
	ctx := context.Background()

	res, err := svc.ListPosts(ctx, ports.ListPostsInput{Status: "draft"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("anonymous draft listing: expected forbidden, got %v (%v)", err, res)
	}

	res, err = svc.ListPosts(ctx, ports.ListPostsInput{Viewer: reader})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if repo.lastFilter.Status != "published" || res.Total != 1 {
		t.Errorf("expected only published posts, filter=%q total=%d", repo.lastFilter.Status, res.Total)
	}

	res, err = svc.ListPosts(ctx, ports.ListPostsInput{Viewer: author, Author: author.ID, Status: "draft"})
	if err != nil {
		t.Fatalf("author draft listing: %v", err)
	}
	if res.Total != 1 {
		t.Errorf("expected the author's draft, got %d", res.Total)
	}

	res, err = svc.ListPosts(ctx, ports.ListPostsInput{Viewer: admin})
	if err != nil {
		t.Fatalf("admin listing: %v", err)
	}
	if res.Total != 2 {
		t.Errorf("admin should see all posts, got %d", res.Total)
	}
}

func TestPostService_ListPosts_ClampsLimit(t *testing.T) {
	svc, repo, _ := newTestPostService()

	res, err := svc.ListPosts(context.Background(), ports.ListPostsInput{Page: -3, Limit: 500})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if res.Page != 1 || res.Limit != maxPostPageSize || repo.lastFilter.Limit != maxPostPageSize {
		t.Errorf("expected page 1 limit %d, got page %d limit %d", maxPostPageSize, res.Page, res.Limit)
	}
}

func TestPostService_ListPosts_PageOutOfRange(t *testing.T) {
	svc, repo, _ := newTestPostService()

	_, err := svc.ListPosts(context.Background(), ports.ListPostsInput{Page: math.MaxInt64, Limit: 50})
	if domain.KindOf(err) != domain.KindBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
	if repo.lastFilter.Page != 0 {
		t.Errorf("repository must not be queried, got filter %+v", repo.lastFilter)
	}

	res, err := svc.ListPosts(context.Background(), ports.ListPostsInput{Page: 1_000_000, Limit: 50})
	if err != nil {
		t.Fatalf("large but valid page: %v", err)
	}
	if res.Page != 1_000_000 {
		t.Errorf("expected page to be kept, got %d", res.Page)
	}
}

// ---------------------------------------------------------------------------
// Update, like
// ---------------------------------------------------------------------------

func TestPostService_UpdatePost_ReslugsAndPublishes(t *testing.T) {
	svc, _, _ := newTestPostService()
	draft := createPost(t, svc, "draft")

	published := domain.PostPublished
	updated, err := svc.UpdatePost(context.Background(), draft.ID, domain.PostChanges{
		Title:  strPtr("A Brand New Title"),
		Status: &published,
	})
	if err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if !strings.HasPrefix(updated.Slug, "a-brand-new-title-") {
		t.Errorf("expected new slug, got %q", updated.Slug)
	}
	if updated.PublishedAt == nil {
		t.Error("expected publishedAt on first publish")
	}
}

func TestPostService_ToggleLike(t *testing.T) {
	svc, _, _ := newTestPostService()
	p := createPost(t, svc, "published")
	ctx := context.Background()

	res, err := svc.ToggleLike(ctx, p.ID, reader.ID)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if !res.Liked || res.LikesCount != 1 {
		t.Fatalf("expected liked with 1 like, got %+v", res)
	}

	res, err = svc.ToggleLike(ctx, p.ID, reader.ID)
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if res.Liked || res.LikesCount != 0 {
		t.Fatalf("expected unliked with 0 likes, got %+v", res)
	}
}

func TestPostService_ToggleLike_Draft(t *testing.T) {
	svc, _, _ := newTestPostService()
	draft := createPost(t, svc, "draft")

	if _, err := svc.ToggleLike(context.Background(), draft.ID, reader.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMakeExcerpt(t *testing.T) {
	short := "a  short\n text"
	if got := makeExcerpt(short); got != "a short text" {
		t.Errorf("expected collapsed whitespace, got %q", got)
	}

	long := strings.Repeat("word ", 100)
	got := makeExcerpt(long)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis, got %q", got)
	}
	if len([]rune(got)) > excerptLength+3 {
		t.Errorf("excerpt too long: %d runes", len([]rune(got)))
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":  "hello-world",
		"  Go  & Rust  ": "go-rust",
		"Ünïcode Títle":  "ünïcode-títle",
		"!!!":            "",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
