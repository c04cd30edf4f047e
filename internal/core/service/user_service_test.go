package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sould/property-match/internal/core/domain"
	"github.com/sould/property-match/internal/core/ports"
)

func TestUserService_UpdateProfile(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	ctx := context.Background()
	u := repo.add("Alice", "alice@example.com")

	if _, err := svc.UpdateProfile(ctx, u.ID, domain.ProfileUpdate{}); err != domain.ErrMissingFields {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	got, err := svc.UpdateProfile(ctx, u.ID, domain.ProfileUpdate{LastName: "Smith", Phone: "555"})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if got.FirstName != "Alice" || got.LastName != "Smith" || got.Phone != "555" {
		t.Fatalf("unexpected profile: %+v", got)
	}
	if _, err := svc.UpdateProfile(ctx, "missing", domain.ProfileUpdate{Phone: "1"}); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_SetUserType(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	ctx := context.Background()
	u := repo.add("Alice", "alice@example.com")
	u.IsFirstLogin = true
	_ = repo.Update(ctx, u)

	if _, err := svc.SetUserType(ctx, u.ID, "landlord"); err == nil {
		t.Fatal("expected error for unknown user type")
	}
	got, err := svc.SetUserType(ctx, u.ID, domain.UserTypeAgent)
	if err != nil {
		t.Fatalf("SetUserType returned error: %v", err)
	}
	if got.UserType != domain.UserTypeAgent || got.IsFirstLogin {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUserService_SearchExcludesSelfAndUnverified(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	ctx := context.Background()

	me := repo.add("Anna", "anna@example.com")
	repo.add("Annabel", "annabel@example.com")
	pending := repo.add("Annie", "annie@example.com")
	pending.IsVerified = false
	_ = repo.Update(ctx, pending)

	got, err := svc.Search(ctx, me.ID, "ann")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(got) != 1 || got[0].FirstName != "Annabel" {
		t.Fatalf("unexpected results: %+v", got)
	}
	if empty, _ := svc.Search(ctx, me.ID, " "); len(empty) != 0 {
		t.Fatalf("blank query should return nothing, got %d", len(empty))
	}
}

func TestUserService_SuperAdminOperations(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	ctx := context.Background()

	root := repo.add("Root", "root@example.com")
	root.Role = domain.RoleSuperAdmin
	_ = repo.Update(ctx, root)
	u := repo.add("Alice", "alice@example.com")

	super := ports.Actor{UserID: root.ID, Role: domain.RoleSuperAdmin}
	admin := ports.Actor{UserID: u.ID, Role: domain.RoleAdmin}

	if _, err := svc.ListVerified(ctx, admin); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	list, err := svc.ListVerified(ctx, super)
	if err != nil {
		t.Fatalf("ListVerified returned error: %v", err)
	}
	if len(list) != 1 || list[0].ID != u.ID {
		t.Fatalf("expected only Alice, got %+v", list)
	}

	if _, err := svc.SetAdmin(ctx, admin, u.ID, true); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	promoted, err := svc.SetAdmin(ctx, super, u.ID, true)
	if err != nil || promoted.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %+v (%v)", promoted, err)
	}
	demoted, _ := svc.SetAdmin(ctx, super, u.ID, false)
	if demoted.Role != domain.RoleUser {
		t.Fatalf("expected user role, got %s", demoted.Role)
	}
	if _, err := svc.SetAdmin(ctx, super, root.ID, false); err == nil {
		t.Fatal("super admin role must not be changed")
	}

	if err := svc.Delete(ctx, admin, u.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, super, u.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.Profile(ctx, u.ID); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
}
