package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func validTestUser() User {
	return User{
		ID:       "0f8fbb6e-8b4e-4f39-9de2-9f3c26f0a1aa",
		Email:    "a@b.com",
		Username: "admin",
		Roles: []Role{{
			ID:   "8d9e0c4a-6f1b-4f7c-9a2d-3b4c5d6e7f80",
			Name: "Admin",
			Permissions: []Permission{{
				ID:       "11111111-2222-3333-4444-555555555555",
				Resource: "users",
				Action:   "read",
			}},
		}},
	}
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(u *User)
		wantErr bool
	}{
		{name: "valid user", mutate: func(u *User) {}},
		{name: "no roles is fine", mutate: func(u *User) { u.Roles = nil }},
		{name: "non uuid id", mutate: func(u *User) { u.ID = "user-1" }, wantErr: true},
		{name: "empty id", mutate: func(u *User) { u.ID = "" }, wantErr: true},
		{name: "empty email", mutate: func(u *User) { u.Email = "  " }, wantErr: true},
		{name: "role without name", mutate: func(u *User) { u.Roles[0].Name = "" }, wantErr: true},
		{name: "permission without resource", mutate: func(u *User) { u.Roles[0].Permissions[0].Resource = "" }, wantErr: true},
		{name: "permission without action", mutate: func(u *User) { u.Roles[0].Permissions[0].Action = "" }, wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			user := validTestUser()
			tc.mutate(&user)

			err := user.Validate()
			if tc.wantErr && !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("expected ErrMalformedPayload, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestUserFullName(t *testing.T) {
	t.Parallel()

	u := User{FirstName: "Ada", LastName: "Admin"}
	if got := u.FullName(); got != "Ada Admin" {
		t.Fatalf("full name = %q", got)
	}

	u = User{FirstName: "Ada"}
	if got := u.FullName(); got != "Ada" {
		t.Fatalf("full name with no last name = %q", got)
	}

	u = User{}
	if got := u.FullName(); got != "" {
		t.Fatalf("empty full name = %q", got)
	}
}

func TestUserWireShape(t *testing.T) {
	t.Parallel()

	payload := `{
		"id": "0f8fbb6e-8b4e-4f39-9de2-9f3c26f0a1aa",
		"email": "a@b.com",
		"username": "admin",
		"first_name": "Ada",
		"last_name": "Admin",
		"is_active": true,
		"is_verified": false,
		"created_at": "2025-03-01T12:00:00Z",
		"updated_at": "2025-03-01T12:00:00Z",
		"last_login": null,
		"roles": []
	}`

	var user User
	if err := json.Unmarshal([]byte(payload), &user); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := user.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if user.FirstName != "Ada" || !user.IsActive || user.LastLogin != nil {
		t.Fatalf("decoded user mismatch: %+v", user)
	}
}

func TestSessionIsZero(t *testing.T) {
	t.Parallel()

	if !(Session{}).IsZero() {
		t.Fatal("empty session must be zero")
	}
	if !(Session{Token: "tok1"}).IsZero() {
		t.Fatal("session without a user must be zero")
	}
	if !(Session{User: validTestUser()}).IsZero() {
		t.Fatal("session without a token must be zero")
	}

	full := Session{Token: "tok1", User: validTestUser()}
	if full.IsZero() {
		t.Fatal("complete session must not be zero")
	}
}
