package domain

import "testing"

func TestRouteDescriptor_Validate(t *testing.T) {
	ok := RouteDescriptor{Name: "messages", Path: "/messages", RequiresAuth: true}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conflicting := RouteDescriptor{Name: "login", Path: "/login", RequiresAuth: true, RedirectAway: true}
	if err := conflicting.Validate(); err == nil {
		t.Fatalf("requires_auth + redirect_away must be rejected")
	}

	openRoleLock := RouteDescriptor{Name: "search", Path: "/search", AllowedRoles: []Role{RoleEmployer}}
	if err := openRoleLock.Validate(); err == nil {
		t.Fatalf("role restriction without requires_auth must be rejected")
	}

	badRole := RouteDescriptor{Name: "admin", Path: "/admin", RequiresAuth: true, AllowedRoles: []Role{"root"}}
	if err := badRole.Validate(); err == nil {
		t.Fatalf("unknown role must be rejected")
	}
}

func TestRouteDescriptor_AllowsRole(t *testing.T) {
	unrestricted := RouteDescriptor{Name: "messages", Path: "/messages", RequiresAuth: true}
	if !unrestricted.AllowsRole(RoleSeeker) || !unrestricted.AllowsRole(RoleEmployer) {
		t.Fatalf("unrestricted route must admit every role")
	}

	locked := RouteDescriptor{Name: "search", Path: "/search", RequiresAuth: true, AllowedRoles: []Role{RoleEmployer}}
	if locked.AllowsRole(RoleSeeker) {
		t.Fatalf("seeker must not be admitted to employer route")
	}
	if !locked.AllowsRole(RoleEmployer) {
		t.Fatalf("employer must be admitted")
	}
}
