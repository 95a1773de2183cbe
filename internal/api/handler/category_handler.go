package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-api/internal/api/middleware"
	"github.com/quillpress/blog-api/internal/api/response"
	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
)

type CategoryHandler struct {
	service ports.CategoryService
}

func NewCategoryHandler(service ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

type createCategoryRequest struct {
	Name        string `json:"name"        validate:"required,min=2,max=50"`
	Description string `json:"description" validate:"omitempty,max=200"`
	Color       string `json:"color"       validate:"omitempty,hexcolor"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=2,max=50"`
	Description *string `json:"description" validate:"omitempty,max=200"`
	Color       *string `json:"color"       validate:"omitempty,hexcolor"`
}

type categoryData struct {
	Category *domain.Category `json:"category"`
}

// Loader adapts the service to middleware.LoadResource.
func (h *CategoryHandler) Loader() middleware.ResourceLoader {
	return func(ctx context.Context, id string) (domain.Owned, error) {
		cat, err := h.service.GetCategory(ctx, id)
		if err != nil {
			return nil, err
		}
		return cat, nil
	}
}

// List handles GET /api/categories.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200  {object}  response.Body{data=[]domain.Category}
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	items, err := h.service.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	n := len(items)
	return c.JSON(http.StatusOK, response.Body{Success: true, Count: &n, Data: items})
}

// Get handles GET /api/categories/:id.
//
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Param        id   path      string  true  "Category id"
// @Success      200  {object}  response.Body{data=categoryData}
// @Failure      404  {object}  response.ErrorBody
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) Get(c echo.Context) error {
	cat, err := h.service.GetCategory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, categoryData{Category: cat})
}

// Create handles POST /api/categories (admin only).
//
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCategoryRequest  true  "Category"
// @Success      201   {object}  response.Body{data=categoryData}
// @Failure      400   {object}  response.ErrorBody
// @Failure      403   {object}  response.ErrorBody
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cat, err := h.service.CreateCategory(c.Request().Context(), ports.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		CreatedBy:   user.ID,
	})
	if err != nil {
		return err
	}
	return response.Message(c, http.StatusCreated, "Category created successfully", categoryData{Category: cat})
}

// Update handles PUT /api/categories/:id.
//
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Category id"
// @Param        body  body      updateCategoryRequest  true  "Fields to change"
// @Success      200   {object}  response.Body{data=categoryData}
// @Failure      400   {object}  response.ErrorBody
// @Failure      403   {object}  response.ErrorBody
// @Failure      404   {object}  response.ErrorBody
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(c echo.Context) error {
	var req updateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cat, err := h.service.UpdateCategory(c.Request().Context(), c.Param("id"), domain.CategoryChanges{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		return err
	}
	return response.Message(c, http.StatusOK, "Category updated successfully", categoryData{Category: cat})
}

// Delete handles DELETE /api/categories/:id. Categories with posts are kept.
//
// @Summary      Delete a category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Category id"
// @Success      200  {object}  response.Body
// @Failure      400  {object}  response.ErrorBody
// @Failure      403  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteCategory(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return response.Message(c, http.StatusOK, "Category deleted successfully", nil)
}
