package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrMalformedPayload = errors.New("malformed payload")

// User mirrors the backend user resource. Field names follow the wire
// contract exactly; the backend is the source of truth and this is a cache.
type User struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Username   string     `json:"username"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Phone      string     `json:"phone,omitempty"`
	IsActive   bool       `json:"is_active"`
	IsVerified bool       `json:"is_verified"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
	Roles      []Role     `json:"roles"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Validate rejects payloads that do not satisfy the closed user shape:
// ids must be UUIDs and every permission must carry a (resource, action)
// pair. Roles with malformed entries fail the whole user rather than being
// silently dropped.
func (u *User) Validate() error {
	if u == nil {
		return ErrMalformedPayload
	}
	if _, err := uuid.Parse(strings.TrimSpace(u.ID)); err != nil {
		return ErrMalformedPayload
	}
	if strings.TrimSpace(u.Email) == "" {
		return ErrMalformedPayload
	}
	for i := range u.Roles {
		if err := u.Roles[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
