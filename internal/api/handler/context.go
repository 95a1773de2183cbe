package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-api/internal/api/middleware"
	"github.com/quillpress/blog-api/internal/core/domain"
)

// currentUser returns the identity attached by the auth middleware. Routes
// that call it are always behind Protect, so a missing user means the route
// was wired without it.
func currentUser(c echo.Context) (*domain.User, error) {
	u, ok := middleware.UserFromContext(c)
	if !ok {
		return nil, domain.ErrAuthRequired
	}
	return u, nil
}

// bindAndValidate decodes the request body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.BadRequest("Invalid request body")
	}
	return c.Validate(req)
}

// queryInt parses an integer query parameter, returning 0 when it is absent
// or malformed so the service applies its default.
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}
