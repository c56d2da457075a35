package apihttp

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/badalot/crm-banking-insurance/internal/domain/model"
)

type UsersRepo struct {
	client *Client
}

func NewUsersRepo(client *Client) *UsersRepo {
	return &UsersRepo{client: client}
}

type UpdateUserInput struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

func (r *UsersRepo) List(ctx context.Context, skip, limit int) ([]model.User, error) {
	query := url.Values{}
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	path := "/users"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	users := []model.User{}
	if err := r.client.DoJSON(ctx, http.MethodGet, path, nil, &users, true); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UsersRepo) Get(ctx context.Context, userID string) (model.User, error) {
	user := model.User{}
	if err := r.client.DoJSON(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil, &user, true); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (r *UsersRepo) Update(ctx context.Context, userID string, input UpdateUserInput) (model.User, error) {
	user := model.User{}
	if err := r.client.DoJSON(ctx, http.MethodPut, "/users/"+url.PathEscape(userID), input, &user, true); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Deactivate is the backend's soft delete: the user keeps existing but can
// no longer sign in.
func (r *UsersRepo) Deactivate(ctx context.Context, userID string) (model.User, error) {
	user := model.User{}
	if err := r.client.DoJSON(ctx, http.MethodDelete, "/users/"+url.PathEscape(userID), nil, &user, true); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (r *UsersRepo) Activate(ctx context.Context, userID string) (model.User, error) {
	user := model.User{}
	if err := r.client.DoJSON(ctx, http.MethodPost, "/users/"+url.PathEscape(userID)+"/activate", nil, &user, true); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (r *UsersRepo) AssignRoles(ctx context.Context, userID string, roleIDs []string) (model.User, error) {
	request := struct {
		RoleIDs []string `json:"role_ids"`
	}{RoleIDs: roleIDs}

	user := model.User{}
	if err := r.client.DoJSON(ctx, http.MethodPost, "/users/"+url.PathEscape(userID)+"/roles", request, &user, true); err != nil {
		return model.User{}, err
	}
	return user, nil
}
