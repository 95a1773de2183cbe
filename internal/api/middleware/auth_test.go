package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quillpress/blog-api/internal/core/domain"
)

// stubResolver maps tokens to users; unknown tokens fail.
type stubResolver map[string]*domain.User

func (r stubResolver) ResolveIdentity(_ context.Context, token string) (*domain.User, error) {
	u, ok := r[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return u, nil
}

var resolver = stubResolver{
	"good":     {ID: "u1", Username: "alice", Role: domain.RoleUser, IsActive: true},
	"admin":    {ID: "u9", Username: "root", Role: domain.RoleAdmin, IsActive: true},
	"inactive": {ID: "u2", Username: "bob", Role: domain.RoleUser, IsActive: false},
}

func newContext(method, body, header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/", nil)
	} else {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	if body.Success {
		t.Fatal("error envelope must have success=false")
	}
	return body.Error
}

// ---------------------------------------------------------------------------
// ExtractToken
// ---------------------------------------------------------------------------

func TestExtractToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"bearer abc", "", false},
		{"Token abc", "", false},
		{"Bearerabc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		token, ok := ExtractToken(tc.header)
		if ok != tc.ok || token != tc.token {
			t.Errorf("ExtractToken(%q) = (%q, %v), want (%q, %v)", tc.header, token, ok, tc.token, tc.ok)
		}
	}
}

// ---------------------------------------------------------------------------
// Protect
// ---------------------------------------------------------------------------

func TestProtect_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		header string
		msg    string
	}{
		{"missing header", "", "Not authorized, no token provided"},
		{"wrong scheme", "Token good", "Not authorized, no token provided"},
		{"unknown token", "Bearer forged", "Not authorized, token failed"},
		{"inactive user", "Bearer inactive", "Account is deactivated"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "", tc.header)
			h := Protect(resolver, zerolog.Nop())(func(c echo.Context) error {
				t.Fatal("should not reach next")
				return nil
			})

			if err := h(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if got := decodeError(t, rec); got != tc.msg {
				t.Errorf("expected %q, got %q", tc.msg, got)
			}
		})
	}
}

func TestProtect_AttachesUser(t *testing.T) {
	c, rec := newContext(http.MethodGet, "", "Bearer good")

	called := false
	h := Protect(resolver, zerolog.Nop())(func(c echo.Context) error {
		called = true
		u, ok := UserFromContext(c)
		if !ok || u.ID != "u1" {
			t.Fatalf("expected user u1, got %+v", u)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected next to run with 200, called=%v code=%d", called, rec.Code)
	}
}

// ---------------------------------------------------------------------------
// OptionalAuth
// ---------------------------------------------------------------------------

func TestOptionalAuth(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		wantUser string
	}{
		{"no header", "", ""},
		{"bad token", "Bearer forged", ""},
		{"inactive user", "Bearer inactive", ""},
		{"valid token", "Bearer good", "u1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "", tc.header)

			called := false
			h := OptionalAuth(resolver, zerolog.Nop())(func(c echo.Context) error {
				called = true
				u, ok := UserFromContext(c)
				switch {
				case tc.wantUser == "" && ok:
					t.Fatalf("expected anonymous, got %+v", u)
				case tc.wantUser != "" && (!ok || u.ID != tc.wantUser):
					t.Fatalf("expected user %s, got %+v", tc.wantUser, u)
				}
				return c.NoContent(http.StatusOK)
			})

			if err := h(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if !called || rec.Code != http.StatusOK {
				t.Fatalf("OptionalAuth must always continue, called=%v code=%d", called, rec.Code)
			}
		})
	}
}
