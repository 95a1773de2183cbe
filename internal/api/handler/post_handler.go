package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-api/internal/api/middleware"
	"github.com/quillpress/blog-api/internal/api/response"
	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
)

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	service ports.PostService
	views   ports.ViewRecorder
}

// NewPostHandler wires the post service. views may be nil, in which case
// reads are not counted.
func NewPostHandler(service ports.PostService, views ports.ViewRecorder) *PostHandler {
	return &PostHandler{service: service, views: views}
}

// Loader adapts the service to middleware.LoadResource. It loads without a
// visibility check; ownership is enforced by the next middleware.
func (h *PostHandler) Loader() middleware.ResourceLoader {
	return func(ctx context.Context, id string) (domain.Owned, error) {
		post, err := h.service.GetPost(ctx, id, &domain.User{Role: domain.RoleAdmin})
		if err != nil {
			return nil, err
		}
		return post, nil
	}
}

// List handles GET /api/posts.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        page      query     int     false  "Page (1-based)"
// @Param        limit     query     int     false  "Page size (max 50)"
// @Param        category  query     string  false  "Category id"
// @Param        author    query     string  false  "Author id"
// @Param        tag       query     string  false  "Tag"
// @Param        search    query     string  false  "Search in title, excerpt and tags"
// @Param        status    query     string  false  "draft (own posts or admin) or published"
// @Param        sort      query     string  false  "newest, oldest or popular"
// @Success      200       {object}  response.Body{data=[]domain.Post}
// @Failure      403       {object}  response.ErrorBody
// @Router       /api/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	viewer, _ := middleware.UserFromContext(c)

	res, err := h.service.ListPosts(c.Request().Context(), ports.ListPostsInput{
		Viewer:   viewer,
		Category: c.QueryParam("category"),
		Author:   c.QueryParam("author"),
		Tag:      c.QueryParam("tag"),
		Search:   c.QueryParam("search"),
		Status:   c.QueryParam("status"),
		Sort:     c.QueryParam("sort"),
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}
	return response.Page(c, http.StatusOK, res.Items, len(res.Items), response.Pagination{
		Page: res.Page, Limit: res.Limit, Total: res.Total, TotalPages: res.TotalPages,
	})
}

// Get handles GET /api/posts/:id.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  response.Body{data=postData}
// @Failure      404  {object}  response.ErrorBody
// @Router       /api/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	viewer, _ := middleware.UserFromContext(c)

	post, err := h.service.GetPost(c.Request().Context(), c.Param("id"), viewer)
	if err != nil {
		return err
	}
	h.recordView(c, post, viewer)
	return response.OK(c, http.StatusOK, postData{Post: post})
}

// GetBySlug handles GET /api/posts/slug/:slug.
//
// @Summary      Get a post by slug
// @Tags         posts
// @Produce      json
// @Param        slug  path      string  true  "Post slug"
// @Success      200   {object}  response.Body{data=postData}
// @Failure      404   {object}  response.ErrorBody
// @Router       /api/posts/slug/{slug} [get]
func (h *PostHandler) GetBySlug(c echo.Context) error {
	viewer, _ := middleware.UserFromContext(c)

	post, err := h.service.GetPostBySlug(c.Request().Context(), c.Param("slug"), viewer)
	if err != nil {
		return err
	}
	h.recordView(c, post, viewer)
	return response.OK(c, http.StatusOK, postData{Post: post})
}

// Create handles POST /api/posts.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post"
// @Success      201   {object}  response.Body{data=postData}
// @Failure      400   {object}  response.ErrorBody
// @Failure      401   {object}  response.ErrorBody
// @Router       /api/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.service.CreatePost(c.Request().Context(), ports.CreatePostInput{
		AuthorID:      user.ID,
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Category:      req.Category,
		Tags:          req.Tags,
		Status:        req.Status,
		FeaturedImage: req.FeaturedImage,
	})
	if err != nil {
		return err
	}
	return response.Message(c, http.StatusCreated, "Post created successfully", postData{Post: post})
}

// Update handles PUT /api/posts/:id. Ownership is checked by middleware.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post id"
// @Param        body  body      updatePostRequest  true  "Fields to change"
// @Success      200   {object}  response.Body{data=postData}
// @Failure      400   {object}  response.ErrorBody
// @Failure      403   {object}  response.ErrorBody
// @Failure      404   {object}  response.ErrorBody
// @Router       /api/posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	var req updatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.service.UpdatePost(c.Request().Context(), c.Param("id"), req.changes())
	if err != nil {
		return err
	}
	return response.Message(c, http.StatusOK, "Post updated successfully", postData{Post: post})
}

// Delete handles DELETE /api/posts/:id. Ownership is checked by middleware.
//
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  response.Body
// @Failure      403  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /api/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	if err := h.service.DeletePost(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return response.Message(c, http.StatusOK, "Post deleted successfully", nil)
}

// Like handles POST /api/posts/:id/like, toggling the current user's like.
//
// @Summary      Toggle like
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  response.Body{data=likeData}
// @Failure      401  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /api/posts/{id}/like [post]
func (h *PostHandler) Like(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	res, err := h.service.ToggleLike(c.Request().Context(), c.Param("id"), user.ID)
	if err != nil {
		return err
	}
	msg := "Post unliked"
	if res.Liked {
		msg = "Post liked"
	}
	return response.Message(c, http.StatusOK, msg, likeData{Liked: res.Liked, LikesCount: res.LikesCount})
}

// recordView enqueues a view of a published post. Anonymous viewers are
// identified by client IP.
func (h *PostHandler) recordView(c echo.Context, post *domain.Post, viewer *domain.User) {
	if h.views == nil || post.Status != domain.PostPublished {
		return
	}
	viewerID := "ip:" + c.RealIP()
	if viewer != nil {
		viewerID = "user:" + viewer.ID
	}
	h.views.Record(domain.PostView{PostID: post.ID, ViewerID: viewerID, ViewedAt: time.Now().UTC()})
}
