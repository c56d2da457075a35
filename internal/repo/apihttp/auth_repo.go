package apihttp

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/badalot/crm-banking-insurance/internal/domain/model"
)

var errMissingToken = errors.New("login response has no access token")

type AuthRepo struct {
	client *Client
}

func NewAuthRepo(client *Client) *AuthRepo {
	return &AuthRepo{client: client}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        model.User `json:"user"`
}

type RegisterInput struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
}

type UpdateProfileInput struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// Login exchanges credentials for a session. The request goes out without a
// bearer token, so a 401 here classifies as invalid credentials rather than
// an expired session.
func (r *AuthRepo) Login(ctx context.Context, email, password string) (model.Session, error) {
	response := loginResponse{}
	err := r.client.DoJSON(ctx, http.MethodPost, "/auth/login", loginRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
	}, &response, false)
	if err != nil {
		return model.Session{}, err
	}

	session := model.Session{
		Token: strings.TrimSpace(response.AccessToken),
		User:  response.User,
	}
	if session.Token == "" {
		return model.Session{}, &RequestError{
			Op:   "validate login response",
			Kind: KindServer,
			Err:  errMissingToken,
		}
	}
	if err := session.User.Validate(); err != nil {
		return model.Session{}, &RequestError{
			Op:   "validate login user payload",
			Kind: KindServer,
			Err:  err,
		}
	}
	return session, nil
}

// Me fetches the current profile with the active bearer token. Used at
// rehydration and after profile edits.
func (r *AuthRepo) Me(ctx context.Context) (model.User, error) {
	user := model.User{}
	if err := r.client.DoJSON(ctx, http.MethodGet, "/auth/me", nil, &user, true); err != nil {
		return model.User{}, err
	}
	if err := user.Validate(); err != nil {
		return model.User{}, &RequestError{
			Op:   "validate user payload",
			Kind: KindServer,
			Err:  err,
		}
	}
	return user, nil
}

func (r *AuthRepo) UpdateMe(ctx context.Context, input UpdateProfileInput) (model.User, error) {
	user := model.User{}
	if err := r.client.DoJSON(ctx, http.MethodPut, "/auth/me", input, &user, true); err != nil {
		return model.User{}, err
	}
	if err := user.Validate(); err != nil {
		return model.User{}, &RequestError{
			Op:   "validate user payload",
			Kind: KindServer,
			Err:  err,
		}
	}
	return user, nil
}

// Register creates a user on behalf of an administrator.
func (r *AuthRepo) Register(ctx context.Context, input RegisterInput) (model.User, error) {
	user := model.User{}
	if err := r.client.DoJSON(ctx, http.MethodPost, "/auth/register", input, &user, true); err != nil {
		return model.User{}, err
	}
	return user, nil
}
