package apihttp

import (
	"context"
	"net/http"
	"net/url"

	"github.com/badalot/crm-banking-insurance/internal/domain/model"
)

type RolesRepo struct {
	client *Client
}

func NewRolesRepo(client *Client) *RolesRepo {
	return &RolesRepo{client: client}
}

type RoleInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (r *RolesRepo) List(ctx context.Context) ([]model.Role, error) {
	roles := []model.Role{}
	if err := r.client.DoJSON(ctx, http.MethodGet, "/roles", nil, &roles, true); err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *RolesRepo) Create(ctx context.Context, input RoleInput) (model.Role, error) {
	role := model.Role{}
	if err := r.client.DoJSON(ctx, http.MethodPost, "/roles", input, &role, true); err != nil {
		return model.Role{}, err
	}
	return role, nil
}

func (r *RolesRepo) Update(ctx context.Context, roleID string, input RoleInput) (model.Role, error) {
	role := model.Role{}
	if err := r.client.DoJSON(ctx, http.MethodPut, "/roles/"+url.PathEscape(roleID), input, &role, true); err != nil {
		return model.Role{}, err
	}
	return role, nil
}

func (r *RolesRepo) Delete(ctx context.Context, roleID string) error {
	return r.client.DoJSON(ctx, http.MethodDelete, "/roles/"+url.PathEscape(roleID), nil, nil, true)
}

// SetPermissions replaces the role's permission set with the given catalog
// ids.
func (r *RolesRepo) SetPermissions(ctx context.Context, roleID string, permissionIDs []string) (model.Role, error) {
	request := struct {
		PermissionIDs []string `json:"permission_ids"`
	}{PermissionIDs: permissionIDs}

	role := model.Role{}
	if err := r.client.DoJSON(ctx, http.MethodPost, "/roles/"+url.PathEscape(roleID)+"/permissions", request, &role, true); err != nil {
		return model.Role{}, err
	}
	return role, nil
}

type PermissionsRepo struct {
	client *Client
}

func NewPermissionsRepo(client *Client) *PermissionsRepo {
	return &PermissionsRepo{client: client}
}

func (r *PermissionsRepo) List(ctx context.Context) ([]model.Permission, error) {
	permissions := []model.Permission{}
	if err := r.client.DoJSON(ctx, http.MethodGet, "/permissions", nil, &permissions, true); err != nil {
		return nil, err
	}
	return permissions, nil
}
