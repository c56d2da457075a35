// Package access answers authorization questions from the in-memory user
// profile. It is the single place role and permission checks live; pages
// and commands must not compare role names ad hoc.
//
// Every predicate is pure and fail-closed: a nil user, an empty role list
// or a missing permission all answer false.
package access

import (
	"strings"

	"github.com/badalot/crm-banking-insurance/internal/domain/model"
)

// RoleSuperAdmin holds every permission implicitly, matching the backend's
// permission checker.
const RoleSuperAdmin = "Super Admin"

// Can reports whether any of the user's roles grants the (resource, action)
// capability.
func Can(user *model.User, resource, action string) bool {
	if user == nil {
		return false
	}
	resource = strings.TrimSpace(resource)
	action = strings.TrimSpace(action)
	if resource == "" || action == "" {
		return false
	}

	for i := range user.Roles {
		role := &user.Roles[i]
		if role.Name == RoleSuperAdmin {
			return true
		}
		for j := range role.Permissions {
			perm := &role.Permissions[j]
			if perm.Resource == resource && perm.Action == action {
				return true
			}
		}
	}
	return false
}

// HasRole reports whether the user holds a role with the exact given name.
func HasRole(user *model.User, roleName string) bool {
	if user == nil {
		return false
	}
	roleName = strings.TrimSpace(roleName)
	if roleName == "" {
		return false
	}

	for i := range user.Roles {
		if user.Roles[i].Name == roleName {
			return true
		}
	}
	return false
}

// Permissions flattens the user's role graph into the distinct
// (resource, action) pairs it grants. Useful for display; authorization
// decisions should go through Can.
func Permissions(user *model.User) []model.Permission {
	if user == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var out []model.Permission
	for i := range user.Roles {
		for _, perm := range user.Roles[i].Permissions {
			key := perm.Resource + "\x00" + perm.Action
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, perm)
		}
	}
	return out
}
