// Package models defines the data the client moves between the auth
// service, the vault table and its callers.
package models

import "time"

// Identity is the user record issued by the remote auth service. The client
// only reads it.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Session is an authenticated session as returned by the auth service.
// ExpiresAt is a unix timestamp in seconds; zero means unknown.
type Session struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type,omitempty"`
	ExpiresAt    int64    `json:"expires_at,omitempty"`
	User         Identity `json:"user"`
}

// ExpiresWithin reports whether the access token expires before now+margin.
// Sessions with an unknown expiry are treated as valid.
func (s *Session) ExpiresWithin(now time.Time, margin time.Duration) bool {
	if s.ExpiresAt == 0 {
		return false
	}
	return time.Unix(s.ExpiresAt, 0).Before(now.Add(margin))
}

// AuthResponse is the {user, session} pair returned by sign-in and sign-up.
// Either field may be nil: a user without a session means the account still
// needs its email confirmed.
type AuthResponse struct {
	User    *Identity
	Session *Session
}
