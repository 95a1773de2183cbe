package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quillpress/blog-api/internal/api/response"
	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
)

const (
	bearerPrefix = "Bearer "

	userKey     = "user"
	resourceKey = "resource"
)

// ExtractToken returns the token carried by an Authorization header. Only the
// exact "Bearer " prefix followed by a non-empty token is accepted.
func ExtractToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := header[len(bearerPrefix):]
	if token == "" {
		return "", false
	}
	return token, true
}

// UserFromContext returns the identity attached by Protect or OptionalAuth.
func UserFromContext(c echo.Context) (*domain.User, bool) {
	u, ok := c.Get(userKey).(*domain.User)
	return u, ok && u != nil
}

// SetUser attaches an identity to the request context.
func SetUser(c echo.Context, u *domain.User) {
	c.Set(userKey, u)
}

// Protect requires a valid bearer token that resolves to an active user.
// Rejections are rendered immediately and never reach the error handler.
func Protect(resolver ports.IdentityResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := ExtractToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return reject(c, domain.ErrNoToken)
			}

			user, err := resolver.ResolveIdentity(c.Request().Context(), token)
			if err != nil {
				log.Debug().Err(err).Str("path", c.Request().URL.Path).Msg("token rejected")
				return reject(c, domain.ErrAccessDenied)
			}
			if !user.IsActive {
				return reject(c, domain.ErrAccountDeactivated)
			}

			SetUser(c, user)
			return next(c)
		}
	}
}

// OptionalAuth attaches the caller's identity when a usable token is present
// and otherwise continues anonymously.
func OptionalAuth(resolver ports.IdentityResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := ExtractToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return next(c)
			}

			user, err := resolver.ResolveIdentity(c.Request().Context(), token)
			switch {
			case err != nil:
				log.Debug().Err(err).Msg("optional auth: ignoring token")
			case user.IsActive:
				SetUser(c, user)
			}
			return next(c)
		}
	}
}

// reject writes the error envelope for an auth or authorization failure.
func reject(c echo.Context, err error) error {
	var de *domain.Error
	if !errors.As(err, &de) {
		return response.Fail(c, http.StatusInternalServerError, "Server Error")
	}
	code := http.StatusUnauthorized
	if de.Kind == domain.KindForbidden {
		code = http.StatusForbidden
	}
	return response.Fail(c, code, de.Message)
}
