package access_test

import (
	"testing"

	"github.com/badalot/crm-banking-insurance/internal/domain/model"
	"github.com/badalot/crm-banking-insurance/internal/services/access"
)

func TestCanFailsClosed(t *testing.T) {
	t.Parallel()

	if access.Can(nil, "users", "create") {
		t.Fatal("nil user must not be granted anything")
	}

	noRoles := &model.User{ID: "u1", Email: "a@b.com"}
	if access.Can(noRoles, "users", "create") {
		t.Fatal("user without roles must not be granted anything")
	}

	withPerm := userWithPermission("Admin", "users", "create")
	if access.Can(withPerm, "", "create") || access.Can(withPerm, "users", "") {
		t.Fatal("empty resource or action must be denied")
	}
}

func TestCanMatchesExplicitGrants(t *testing.T) {
	t.Parallel()

	user := userWithPermission("Admin", "users", "create")

	testCases := []struct {
		name     string
		resource string
		action   string
		want     bool
	}{
		{name: "granted pair", resource: "users", action: "create", want: true},
		{name: "same resource other action", resource: "users", action: "delete", want: false},
		{name: "other resource", resource: "roles", action: "delete", want: false},
		{name: "case sensitive resource", resource: "Users", action: "create", want: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := access.Can(user, tc.resource, tc.action); got != tc.want {
				t.Fatalf("Can(%q, %q) = %v, want %v", tc.resource, tc.action, got, tc.want)
			}
		})
	}
}

func TestSuperAdminHoldsEverything(t *testing.T) {
	t.Parallel()

	user := &model.User{
		ID:    "u1",
		Email: "root@b.com",
		Roles: []model.Role{{ID: "r1", Name: access.RoleSuperAdmin}},
	}

	if !access.Can(user, "users", "delete") || !access.Can(user, "anything", "at-all") {
		t.Fatal("super admin must pass every permission check")
	}
}

func TestHasRole(t *testing.T) {
	t.Parallel()

	user := userWithPermission("Admin", "users", "create")

	if !access.HasRole(user, "Admin") {
		t.Fatal("expected Admin role to be found")
	}
	if access.HasRole(user, "admin") {
		t.Fatal("role names are exact matches")
	}
	if access.HasRole(nil, "Admin") {
		t.Fatal("nil user must not hold any role")
	}
	if access.HasRole(user, "") {
		t.Fatal("empty role name must not match")
	}
}

func TestPermissionsDeduplicates(t *testing.T) {
	t.Parallel()

	user := &model.User{
		ID:    "u1",
		Email: "a@b.com",
		Roles: []model.Role{
			{ID: "r1", Name: "Admin", Permissions: []model.Permission{
				{ID: "p1", Resource: "users", Action: "read"},
				{ID: "p2", Resource: "users", Action: "create"},
			}},
			{ID: "r2", Name: "Support", Permissions: []model.Permission{
				{ID: "p3", Resource: "users", Action: "read"},
			}},
		},
	}

	perms := access.Permissions(user)
	if len(perms) != 2 {
		t.Fatalf("expected 2 distinct permissions, got %d", len(perms))
	}
}

func userWithPermission(roleName, resource, action string) *model.User {
	return &model.User{
		ID:    "u1",
		Email: "a@b.com",
		Roles: []model.Role{{
			ID:   "r1",
			Name: roleName,
			Permissions: []model.Permission{{
				ID:       "p1",
				Resource: resource,
				Action:   action,
			}},
		}},
	}
}
