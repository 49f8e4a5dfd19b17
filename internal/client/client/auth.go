package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/staykeeper/internal/client/models"
)

type userDTO struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func (u *userDTO) identity() models.Identity {
	id := models.Identity{ID: u.ID, Email: u.Email}
	for _, key := range []string{"name", "full_name"} {
		if name, ok := u.UserMetadata[key].(string); ok && strings.TrimSpace(name) != "" {
			id.Name = name
			break
		}
	}
	return id
}

type tokenResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	ExpiresAt    int64    `json:"expires_at"`
	User         *userDTO `json:"user"`
}

func (t *tokenResponse) session(now time.Time) *models.Session {
	if t.AccessToken == "" {
		return nil
	}
	s := &models.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		ExpiresAt:    t.ExpiresAt,
	}
	if s.ExpiresAt == 0 && t.ExpiresIn > 0 {
		s.ExpiresAt = now.Unix() + t.ExpiresIn
	}
	if s.ExpiresAt == 0 {
		s.ExpiresAt = tokenExpiry(t.AccessToken)
	}
	if t.User != nil {
		s.User = t.User.identity()
	}
	return s
}

// signupResponse is either a token response or, while the email is not
// confirmed yet, a bare user object.
type signupResponse struct {
	tokenResponse
	userDTO
}

type credentials struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

func (c *SupabaseClient) GetSession(ctx context.Context) (*models.Session, error) {
	return c.currentSession(ctx)
}

func (c *SupabaseClient) SignInWithPassword(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var tr tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPath + "/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   credentials{Email: email, Password: password},
	}, &tr)
	if err != nil {
		return nil, err
	}
	return c.establish(ctx, &tr)
}

func (c *SupabaseClient) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*models.AuthResponse, error) {
	var sr signupResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPath + "/signup",
		body:   credentials{Email: email, Password: password, Data: metadata},
	}, &sr)
	if err != nil {
		return nil, err
	}

	tr := sr.tokenResponse
	if tr.User == nil && sr.userDTO.ID != "" {
		u := sr.userDTO
		tr.User = &u
	}
	return c.establish(ctx, &tr)
}

// establish stores the session of tr, if any, and converts it.
func (c *SupabaseClient) establish(ctx context.Context, tr *tokenResponse) (*models.AuthResponse, error) {
	res := &models.AuthResponse{}
	if tr.User != nil && tr.User.ID != "" {
		id := tr.User.identity()
		res.User = &id
	}

	if s := tr.session(c.now()); s != nil {
		if err := c.saveSession(ctx, s); err != nil {
			return nil, err
		}
		res.Session = s
	}
	return res, nil
}

// SignOut revokes the session remotely and always drops it locally.
func (c *SupabaseClient) SignOut(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.storage.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	var remoteErr error
	if s != nil {
		remoteErr = c.do(ctx, request{
			method: http.MethodPost,
			path:   authPath + "/logout",
			token:  s.AccessToken,
		}, nil)

		var apiErr *APIError
		if errors.Is(remoteErr, ErrUnauthorized) || (errors.As(remoteErr, &apiErr) && apiErr.Status == http.StatusNotFound) {
			remoteErr = nil
		}
	}

	if err := c.storage.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if remoteErr != nil {
		return fmt.Errorf("sign out: %w", remoteErr)
	}
	return nil
}

func (c *SupabaseClient) GetUser(ctx context.Context) (*models.Identity, error) {
	var u userDTO
	err := c.authorized(ctx, request{
		method:      http.MethodGet,
		path:        authPath + "/user",
		needSession: true,
	}, &u)
	if err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, ErrNoSession
	}
	id := u.identity()
	return &id, nil
}
