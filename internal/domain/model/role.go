package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	Permissions []Permission `json:"permissions"`
}

type Permission struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Resource    string    `json:"resource"`
	Action      string    `json:"action"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r *Role) Validate() error {
	if r == nil {
		return ErrMalformedPayload
	}
	if _, err := uuid.Parse(strings.TrimSpace(r.ID)); err != nil {
		return ErrMalformedPayload
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrMalformedPayload
	}
	for i := range r.Permissions {
		if err := r.Permissions[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Permission) Validate() error {
	if p == nil {
		return ErrMalformedPayload
	}
	if strings.TrimSpace(p.Resource) == "" || strings.TrimSpace(p.Action) == "" {
		return ErrMalformedPayload
	}
	return nil
}
