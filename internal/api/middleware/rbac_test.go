package middleware

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-api/internal/core/domain"
)

func TestRequireRole_Allows(t *testing.T) {
	c, rec := newContext(http.MethodGet, "", "")
	SetUser(c, resolver["admin"])

	called := false
	h := RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_Forbids(t *testing.T) {
	c, rec := newContext(http.MethodGet, "", "")
	SetUser(c, resolver["good"])

	h := RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	_ = h(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if got := decodeError(t, rec); got != "User role 'user' is not authorized to access this route" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestRequireRole_NoUser(t *testing.T) {
	c, rec := newContext(http.MethodGet, "", "")

	h := RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	_ = h(c)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if got := decodeError(t, rec); got != "Authentication required" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestRequireRole_NoRolesAcceptsAnyUser(t *testing.T) {
	c, rec := newContext(http.MethodGet, "", "")
	SetUser(c, resolver["good"])

	h := RequireRole()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
