package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-api/internal/core/domain"
)

const ownershipDenied = "Not authorized to access this resource. You can only modify your own resources"

// maxOwnerBody bounds how much of a request body is read to find an owner field.
const maxOwnerBody = 1 << 20

// ResourceLoader fetches the resource named by a path id.
type ResourceLoader func(ctx context.Context, id string) (domain.Owned, error)

// LoadResource loads the resource named by the :id path parameter and
// attaches it to the context for RequireOwnership and the handler. Loader
// errors go to the terminal error handler.
func LoadResource(load ResourceLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res, err := load(c.Request().Context(), c.Param("id"))
			if err != nil {
				return err
			}
			c.Set(resourceKey, res)
			return next(c)
		}
	}
}

// ResourceFromContext returns the resource attached by LoadResource.
func ResourceFromContext(c echo.Context) (domain.Owned, bool) {
	res, ok := c.Get(resourceKey).(domain.Owned)
	return res, ok
}

// RequireOwnership allows admins, and otherwise requires the resource's
// field to equal the current user's id. The owner is read from the attached
// resource, falling back to the JSON request body.
func RequireOwnership(field string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := UserFromContext(c)
			if !ok {
				return reject(c, domain.ErrAuthRequired)
			}
			if user.IsAdmin() {
				return next(c)
			}

			owner, ok := "", false
			if res, found := ResourceFromContext(c); found {
				owner, ok = res.OwnerValue(field)
			} else {
				owner, ok = ownerFromBody(c, field)
			}
			if !ok || owner != user.ID {
				return reject(c, domain.Forbidden(ownershipDenied))
			}
			return next(c)
		}
	}
}

// ownerFromBody reads field from a JSON object body and restores the body.
func ownerFromBody(c echo.Context, field string) (string, bool) {
	req := c.Request()
	if req.Body == nil {
		return "", false
	}
	raw, err := io.ReadAll(io.LimitReader(req.Body, maxOwnerBody))
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return "", false
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", false
	}
	owner, ok := doc[field].(string)
	return owner, ok && owner != ""
}
