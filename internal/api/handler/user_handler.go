package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-api/internal/api/response"
	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
)

type UserHandler struct {
	users ports.UserService
	posts ports.PostService
}

func NewUserHandler(users ports.UserService, posts ports.PostService) *UserHandler {
	return &UserHandler{users: users, posts: posts}
}

type setStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// List returns a page of users (admin only).
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page (1-based)"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Param        search    query     string  false  "Partial match on username, email or name"
// @Param        role      query     string  false  "user or admin"
// @Param        isActive  query     bool    false  "Filter by account state"
// @Success      200       {object}  response.Body{data=[]domain.User}
// @Failure      401       {object}  response.ErrorBody
// @Failure      403       {object}  response.ErrorBody
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	filter := ports.UserFilter{
		Search: c.QueryParam("search"),
		Role:   c.QueryParam("role"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	}
	if v := c.QueryParam("isActive"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return domain.BadRequest("isActive must be true or false")
		}
		filter.IsActive = &active
	}

	res, err := h.users.ListUsers(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return response.Page(c, http.StatusOK, res.Items, len(res.Items), response.Pagination{
		Page: res.Page, Limit: res.Limit, Total: res.Total, TotalPages: res.TotalPages,
	})
}

// Get returns the public profile of an active user.
//
// @Summary      Public user profile
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  response.Body{data=userData}
// @Failure      404  {object}  response.ErrorBody
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, userData{User: user})
}

// SetStatus activates or deactivates an account (admin only).
//
// @Summary      Set account status
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "User id"
// @Param        body  body      setStatusRequest  true  "New state"
// @Success      200   {object}  response.Body{data=userData}
// @Failure      400   {object}  response.ErrorBody
// @Failure      403   {object}  response.ErrorBody
// @Failure      404   {object}  response.ErrorBody
// @Router       /api/users/{id}/status [put]
func (h *UserHandler) SetStatus(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req setStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.SetActive(c.Request().Context(), actor, c.Param("id"), *req.IsActive)
	if err != nil {
		return err
	}
	msg := "User deactivated successfully"
	if user.IsActive {
		msg = "User activated successfully"
	}
	return response.Message(c, http.StatusOK, msg, userData{User: user})
}

// SetRole changes a user's role (admin only).
//
// @Summary      Set user role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "User id"
// @Param        body  body      setRoleRequest  true  "New role"
// @Success      200   {object}  response.Body{data=userData}
// @Failure      400   {object}  response.ErrorBody
// @Failure      403   {object}  response.ErrorBody
// @Failure      404   {object}  response.ErrorBody
// @Router       /api/users/{id}/role [put]
func (h *UserHandler) SetRole(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req setRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.SetRole(c.Request().Context(), actor, c.Param("id"), req.Role)
	if err != nil {
		return err
	}
	return response.Message(c, http.StatusOK, "User role updated successfully", userData{User: user})
}

// Posts lists the published posts of a user.
//
// @Summary      Posts by user
// @Tags         users
// @Produce      json
// @Param        id     path      string  true   "User id"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size (max 50)"
// @Success      200    {object}  response.Body{data=[]domain.Post}
// @Failure      404    {object}  response.ErrorBody
// @Router       /api/users/{id}/posts [get]
func (h *UserHandler) Posts(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := h.users.GetProfile(ctx, id); err != nil {
		return err
	}

	res, err := h.posts.ListPosts(ctx, ports.ListPostsInput{
		Author: id,
		Status: string(domain.PostPublished),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}
	return response.Page(c, http.StatusOK, res.Items, len(res.Items), response.Pagination{
		Page: res.Page, Limit: res.Limit, Total: res.Total, TotalPages: res.TotalPages,
	})
}
