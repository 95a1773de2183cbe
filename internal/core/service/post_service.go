package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
	"github.com/quillpress/blog-api/internal/pkg/metrics"
)

const (
	maxPostPageSize = 50
	excerptLength   = 200
)

type PostService struct {
	repo       ports.PostRepository
	categories ports.CategoryRepository
	logger     zerolog.Logger
	now        func() time.Time
}

func NewPostService(repo ports.PostRepository, categories ports.CategoryRepository, logger zerolog.Logger) *PostService {
	return &PostService{repo: repo, categories: categories, logger: logger, now: time.Now}
}

func (s *PostService) CreatePost(ctx context.Context, in ports.CreatePostInput) (*domain.Post, error) {
	if in.Category != "" {
		if err := s.ensureCategory(ctx, in.Category); err != nil {
			return nil, err
		}
	}

	status := domain.PostStatus(in.Status)
	if status == "" {
		status = domain.PostPublished
	}

	now := s.now().UTC()
	post := &domain.Post{
		Title:         strings.TrimSpace(in.Title),
		Slug:          uniqueSlug(in.Title),
		Content:       in.Content,
		Excerpt:       strings.TrimSpace(in.Excerpt),
		Author:        in.AuthorID,
		Category:      in.Category,
		Tags:          normalizeTags(in.Tags),
		Status:        status,
		FeaturedImage: in.FeaturedImage,
		Likes:         []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if post.Excerpt == "" {
		post.Excerpt = makeExcerpt(post.Content)
	}
	if status == domain.PostPublished {
		post.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, post); err != nil {
		s.logger.Error().Err(err).Msg("failed to create post")
		return nil, err
	}

	metrics.PostsCreatedTotal.WithLabelValues(string(post.Status)).Inc()
	s.logger.Info().Str("post_id", post.ID).Str("author", post.Author).Msg("post created")
	return post, nil
}

// GetPost returns the post when viewer may see it. Drafts of other authors
// are reported as not found rather than forbidden.
func (s *PostService) GetPost(ctx context.Context, id string, viewer *domain.User) (*domain.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.VisibleTo(viewer) {
		return nil, domain.NotFound("Post not found")
	}
	return post, nil
}

func (s *PostService) GetPostBySlug(ctx context.Context, slug string, viewer *domain.User) (*domain.Post, error) {
	post, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !post.VisibleTo(viewer) {
		return nil, domain.NotFound("Post not found")
	}
	return post, nil
}

// ListPosts only includes drafts for admins, or for authors listing their own posts.
func (s *PostService) ListPosts(ctx context.Context, in ports.ListPostsInput) (*ports.ListPostsResult, error) {
	page, limit, err := normalizePage(in.Page, in.Limit, maxPostPageSize)
	if err != nil {
		return nil, err
	}

	filter := ports.PostFilter{
		Category: in.Category,
		Author:   in.Author,
		Tag:      strings.ToLower(strings.TrimSpace(in.Tag)),
		Search:   strings.TrimSpace(in.Search),
		Status:   in.Status,
		Sort:     in.Sort,
		Page:     page,
		Limit:    limit,
	}

	mayViewDrafts := in.Viewer.IsAdmin() || (in.Viewer != nil && in.Author != "" && in.Author == in.Viewer.ID)
	if !mayViewDrafts {
		if filter.Status == string(domain.PostDraft) {
			return nil, domain.Forbidden("Not authorized to view draft posts")
		}
		filter.Status = string(domain.PostPublished)
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.ListPostsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *PostService) UpdatePost(ctx context.Context, id string, ch domain.PostChanges) (*domain.Post, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if ch.Category != nil && *ch.Category != "" && *ch.Category != current.Category {
		if err := s.ensureCategory(ctx, *ch.Category); err != nil {
			return nil, err
		}
	}
	if ch.Title != nil {
		title := strings.TrimSpace(*ch.Title)
		ch.Title = &title
		if title != current.Title {
			slug := uniqueSlug(title)
			ch.Slug = &slug
		}
	}
	if ch.Tags != nil {
		ch.Tags = normalizeTags(ch.Tags)
	}
	if ch.Content != nil && ch.Excerpt == nil && current.Excerpt == makeExcerpt(current.Content) {
		excerpt := makeExcerpt(*ch.Content)
		ch.Excerpt = &excerpt
	}
	if ch.Status != nil && *ch.Status == domain.PostPublished && current.PublishedAt == nil {
		now := s.now().UTC()
		ch.PublishedAt = &now
	}

	updated, err := s.repo.Update(ctx, id, ch)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("post_id", id).Msg("post updated")
	return updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("post_id", id).Msg("post deleted")
	return nil
}

// ToggleLike likes the post if userID has not liked it yet, otherwise unlikes it.
// Drafts cannot be liked.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) (*ports.LikeResult, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != domain.PostPublished {
		return nil, domain.NotFound("Post not found")
	}

	var updated *domain.Post
	liked := !post.LikedBy(userID)
	if liked {
		updated, err = s.repo.AddLike(ctx, postID, userID)
	} else {
		updated, err = s.repo.RemoveLike(ctx, postID, userID)
	}
	if err != nil {
		return nil, err
	}

	action := "unlike"
	if liked {
		action = "like"
	}
	metrics.PostLikesTotal.WithLabelValues(action).Inc()
	return &ports.LikeResult{Liked: liked, LikesCount: updated.LikesCount}, nil
}

func (s *PostService) ensureCategory(ctx context.Context, id string) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ValidationFailed([]domain.Violation{{
				Field: "category", Rule: "exists", Message: "category does not exist",
			}})
		}
		return err
	}
	return nil
}

// normalizeTags lower-cases, trims and de-duplicates tags, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// makeExcerpt returns the first excerptLength runes of content, cut at a word boundary.
func makeExcerpt(content string) string {
	text := strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(text) <= excerptLength {
		return text
	}
	cut := string([]rune(text)[:excerptLength])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
