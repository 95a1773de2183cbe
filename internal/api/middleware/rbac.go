package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-api/internal/core/domain"
)

// RequireRole allows the request when the current user holds one of roles.
// With no roles, any authenticated user passes.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := UserFromContext(c)
			if !ok {
				return reject(c, domain.ErrAuthRequired)
			}
			if len(allowed) > 0 {
				if _, ok := allowed[user.Role]; !ok {
					return reject(c, domain.Forbidden(
						fmt.Sprintf("User role '%s' is not authorized to access this route", user.Role)))
				}
			}
			return next(c)
		}
	}
}
