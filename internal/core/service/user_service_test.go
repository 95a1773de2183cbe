package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
)

func seedUser(t *testing.T, repo *stubUserRepo, username, role string, active bool) *domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &domain.User{
		Username: username, Email: username + "@example.com", PasswordHash: "hash", Role: role, IsActive: active,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", username, err)
	}
	return u
}

func TestUserService_GetProfile(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	active := seedUser(t, repo, "alice", domain.RoleUser, true)
	inactive := seedUser(t, repo, "bob", domain.RoleUser, false)

	got, err := svc.GetProfile(context.Background(), active.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.Email != "" {
		t.Error("public profile must not expose email")
	}

	if _, err := svc.GetProfile(context.Background(), inactive.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for inactive user, got %v", err)
	}
}

func TestUserService_SetActive(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	adminUser := seedUser(t, repo, "root", domain.RoleAdmin, true)
	target := seedUser(t, repo, "alice", domain.RoleUser, true)
	ctx := context.Background()

	if _, err := svc.SetActive(ctx, adminUser, adminUser.ID, false); domain.KindOf(err) != domain.KindBadRequest {
		t.Fatalf("expected self-deactivation to fail, got %v", err)
	}

	got, err := svc.SetActive(ctx, adminUser, target.ID, false)
	if err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if got.IsActive {
		t.Error("expected user to be deactivated")
	}
}

func TestUserService_SetRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	adminUser := seedUser(t, repo, "root", domain.RoleAdmin, true)
	target := seedUser(t, repo, "alice", domain.RoleUser, true)
	ctx := context.Background()

	if _, err := svc.SetRole(ctx, adminUser, target.ID, "superuser"); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.SetRole(ctx, adminUser, adminUser.ID, domain.RoleUser); domain.KindOf(err) != domain.KindBadRequest {
		t.Fatalf("expected self-demotion to fail, got %v", err)
	}

	got, err := svc.SetRole(ctx, adminUser, target.ID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	if got.Role != domain.RoleAdmin {
		t.Errorf("expected admin role, got %q", got.Role)
	}
}

func TestUserService_ListUsers_Pagination(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	for _, name := range []string{"a1", "a2", "a3"} {
		seedUser(t, repo, name, domain.RoleUser, true)
	}

	res, err := svc.ListUsers(context.Background(), ports.UserFilter{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if res.Total != 3 || res.TotalPages != 2 || len(res.Items) != 1 {
		t.Fatalf("unexpected page: total=%d pages=%d items=%d", res.Total, res.TotalPages, len(res.Items))
	}
	for _, u := range res.Items {
		if u.PasswordHash != "" {
			t.Fatal("listed users must not carry password hashes")
		}
	}

	res, _ = svc.ListUsers(context.Background(), ports.UserFilter{})
	if res.Page != 1 || res.Limit != defaultPageSize {
		t.Errorf("expected defaults page=1 limit=%d, got %d/%d", defaultPageSize, res.Page, res.Limit)
	}
}

func TestUserService_ListUsers_PageOutOfRange(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), zerolog.Nop())

	if _, err := svc.ListUsers(context.Background(), ports.UserFilter{Page: math.MaxInt64, Limit: 100}); domain.KindOf(err) != domain.KindBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
}
