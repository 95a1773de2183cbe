package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int

	updateLastLoginErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func withoutHash(u *domain.User) *domain.User {
	c := cloneUser(u)
	c.PasswordHash = ""
	return c
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.DuplicateKey("username", nil)
		}
		if u.Email == user.Email {
			return nil, domain.DuplicateKey("email", nil)
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("u%03d", r.nextID)
	r.users[stored.ID] = stored
	return withoutHash(stored), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NotFound("User not found")
	}
	return withoutHash(u), nil
}

func (r *stubUserRepo) FindByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == identifier || u.Email == strings.ToLower(identifier) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.NotFound("User not found")
}

func (r *stubUserRepo) FindCredentialsByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NotFound("User not found")
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, upd domain.ProfileUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NotFound("User not found")
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.Avatar != nil {
		u.Avatar = *upd.Avatar
	}
	return withoutHash(u), nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.NotFound("User not found")
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	if r.updateLastLoginErr != nil {
		return r.updateLastLoginErr
	}
	u, ok := r.users[id]
	if !ok {
		return domain.NotFound("User not found")
	}
	u.LastLogin = &at
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id string, active bool) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NotFound("User not found")
	}
	u.IsActive = active
	return withoutHash(u), nil
}

func (r *stubUserRepo) SetRole(_ context.Context, id, role string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NotFound("User not found")
	}
	u.Role = role
	return withoutHash(u), nil
}

func (r *stubUserRepo) List(_ context.Context, f ports.UserFilter) ([]*domain.User, int64, error) {
	var all []*domain.User
	for _, u := range r.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.IsActive != nil && u.IsActive != *f.IsActive {
			continue
		}
		all = append(all, withoutHash(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, f.Page, f.Limit), int64(len(all)), nil
}

func paginate[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ---------------------------------------------------------------------------
// In-memory post repository
// ---------------------------------------------------------------------------

type stubPostRepo struct {
	posts      map[string]*domain.Post
	nextID     int
	lastFilter ports.PostFilter
	views      map[string]int64
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[string]*domain.Post), views: make(map[string]int64)}
}

func clonePost(p *domain.Post) *domain.Post {
	c := *p
	c.Likes = append([]string(nil), p.Likes...)
	c.Tags = append([]string(nil), p.Tags...)
	return &c
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) error {
	for _, existing := range r.posts {
		if existing.Slug == p.Slug {
			return domain.DuplicateKey("slug", nil)
		}
	}
	r.nextID++
	p.ID = fmt.Sprintf("p%03d", r.nextID)
	r.posts[p.ID] = clonePost(p)
	return nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.NotFound("Post not found")
	}
	return clonePost(p), nil
}

func (r *stubPostRepo) FindBySlug(_ context.Context, slug string) (*domain.Post, error) {
	for _, p := range r.posts {
		if p.Slug == slug {
			return clonePost(p), nil
		}
	}
	return nil, domain.NotFound("Post not found")
}

func (r *stubPostRepo) Update(_ context.Context, id string, ch domain.PostChanges) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.NotFound("Post not found")
	}
	if ch.Title != nil {
		p.Title = *ch.Title
	}
	if ch.Slug != nil {
		p.Slug = *ch.Slug
	}
	if ch.Content != nil {
		p.Content = *ch.Content
	}
	if ch.Excerpt != nil {
		p.Excerpt = *ch.Excerpt
	}
	if ch.Category != nil {
		p.Category = *ch.Category
	}
	if ch.Tags != nil {
		p.Tags = ch.Tags
	}
	if ch.Status != nil {
		p.Status = *ch.Status
	}
	if ch.FeaturedImage != nil {
		p.FeaturedImage = *ch.FeaturedImage
	}
	if ch.PublishedAt != nil {
		p.PublishedAt = ch.PublishedAt
	}
	return clonePost(p), nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return domain.NotFound("Post not found")
	}
	delete(r.posts, id)
	return nil
}

func (r *stubPostRepo) List(_ context.Context, f ports.PostFilter) ([]*domain.Post, int64, error) {
	r.lastFilter = f
	var all []*domain.Post
	for _, p := range r.posts {
		if f.Status != "" && string(p.Status) != f.Status {
			continue
		}
		if f.Author != "" && p.Author != f.Author {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		all = append(all, clonePost(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, f.Page, f.Limit), int64(len(all)), nil
}

func (r *stubPostRepo) AddLike(_ context.Context, postID, userID string) (*domain.Post, error) {
	p, ok := r.posts[postID]
	if !ok {
		return nil, domain.NotFound("Post not found")
	}
	if !p.LikedBy(userID) {
		p.Likes = append(p.Likes, userID)
		p.LikesCount++
	}
	return clonePost(p), nil
}

func (r *stubPostRepo) RemoveLike(_ context.Context, postID, userID string) (*domain.Post, error) {
	p, ok := r.posts[postID]
	if !ok {
		return nil, domain.NotFound("Post not found")
	}
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			p.LikesCount--
			break
		}
	}
	return clonePost(p), nil
}

func (r *stubPostRepo) IncrementViews(_ context.Context, postID string, n int64) error {
	r.views[postID] += n
	return nil
}

func (r *stubPostRepo) CountByCategory(_ context.Context, categoryID string) (int64, error) {
	var n int64
	for _, p := range r.posts {
		if p.Category == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *stubPostRepo) CountsByCategory(_ context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, p := range r.posts {
		if p.Category != "" {
			out[p.Category]++
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// In-memory category repository
// ---------------------------------------------------------------------------

type stubCategoryRepo struct {
	cats   map[string]*domain.Category
	nextID int
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{cats: make(map[string]*domain.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) error {
	for _, existing := range r.cats {
		if existing.Name == c.Name {
			return domain.DuplicateKey("name", nil)
		}
	}
	r.nextID++
	c.ID = fmt.Sprintf("c%03d", r.nextID)
	stored := *c
	r.cats[c.ID] = &stored
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	c, ok := r.cats[id]
	if !ok {
		return nil, domain.NotFound("Category not found")
	}
	cp := *c
	return &cp, nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(r.cats))
	for _, c := range r.cats {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, id string, ch domain.CategoryChanges) (*domain.Category, error) {
	c, ok := r.cats[id]
	if !ok {
		return nil, domain.NotFound("Category not found")
	}
	if ch.Name != nil {
		c.Name = *ch.Name
	}
	if ch.Slug != nil {
		c.Slug = *ch.Slug
	}
	if ch.Description != nil {
		c.Description = *ch.Description
	}
	if ch.Color != nil {
		c.Color = *ch.Color
	}
	cp := *c
	return &cp, nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.cats[id]; !ok {
		return domain.NotFound("Category not found")
	}
	delete(r.cats, id)
	return nil
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

const testSecret = "test-secret"

func newTestTokenService(t testing.TB, repo ports.UserRepository) *TokenService {
	t.Helper()
	ts, err := NewTokenService(repo, TokenConfig{Secret: testSecret, BcryptCost: bcrypt.MinCost}, zerolog.Nop())
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	return ts
}

func newTestAuthService(t testing.TB) (*AuthService, *stubUserRepo, *TokenService) {
	t.Helper()
	repo := newStubUserRepo()
	tokens := newTestTokenService(t, repo)
	return NewAuthService(repo, tokens, zerolog.Nop()), repo, tokens
}

func strPtr(s string) *string { return &s }
