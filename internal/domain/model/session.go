package model

import "strings"

// Session is the client-held proof of authentication: the bearer token plus
// a cached copy of the user profile. Token and user are present together or
// not at all.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (s Session) IsZero() bool {
	return strings.TrimSpace(s.Token) == "" || strings.TrimSpace(s.User.ID) == ""
}
