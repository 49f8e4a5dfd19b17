package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/staykeeper/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
)

// accessClaims are the claims read from an access token. They are never
// trusted for authorization; the token is verified by the remote on use.
type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func parseClaims(token string) (*accessClaims, error) {
	claims := &accessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return claims, nil
}

// tokenExpiry returns the exp claim of token as unix seconds, or 0.
func tokenExpiry(token string) int64 {
	claims, err := parseClaims(token)
	if err != nil || claims.ExpiresAt == nil {
		return 0
	}
	return claims.ExpiresAt.Unix()
}

// urlParams returns the auth parameters of u. Redirects put them in the
// fragment; the query is checked as well.
func urlParams(u *url.URL) (url.Values, error) {
	params, err := url.ParseQuery(u.EscapedFragment())
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	if params.Get("access_token") != "" || params.Get("error_description") != "" {
		return params, nil
	}
	return u.Query(), nil
}

func (c *SupabaseClient) DetectSessionInURL(ctx context.Context, rawURL string) (*models.Session, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	params, err := urlParams(u)
	if err != nil {
		return nil, err
	}

	if msg := params.Get("error_description"); msg != "" {
		return nil, &APIError{Status: http.StatusBadRequest, Code: params.Get("error_code"), Message: msg}
	}

	access := params.Get("access_token")
	if access == "" {
		return nil, nil
	}

	s := &models.Session{
		AccessToken:  access,
		RefreshToken: params.Get("refresh_token"),
		TokenType:    params.Get("token_type"),
	}
	if v, err := strconv.ParseInt(params.Get("expires_at"), 10, 64); err == nil {
		s.ExpiresAt = v
	} else if v, err := strconv.ParseInt(params.Get("expires_in"), 10, 64); err == nil && v > 0 {
		s.ExpiresAt = c.now().Unix() + v
	} else {
		s.ExpiresAt = tokenExpiry(access)
	}

	var user userDTO
	if err := c.do(ctx, request{method: http.MethodGet, path: authPath + "/user", token: access}, &user); err != nil {
		return nil, fmt.Errorf("resolve url session: %w", err)
	}
	if claims, err := parseClaims(access); err == nil && claims.Subject != "" && claims.Subject != user.ID {
		return nil, fmt.Errorf("resolve url session: token subject %q does not match user %q", claims.Subject, user.ID)
	}
	s.User = user.identity()

	if err := c.saveSession(ctx, s); err != nil {
		return nil, err
	}
	c.logger.Info(ctx, "session adopted from url", "user_id", s.User.ID)
	return s, nil
}
