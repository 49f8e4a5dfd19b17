package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/staykeeper/internal/client/models"
	"github.com/dmitrijs2005/staykeeper/internal/client/repositories/vaults"
	"github.com/dmitrijs2005/staykeeper/internal/client/sessions"
	"github.com/dmitrijs2005/staykeeper/internal/logging"
)

const (
	authPath = "/auth/v1"
	restPath = "/rest/v1"

	// refreshMargin is how close to expiry a stored session gets refreshed.
	refreshMargin  = 30 * time.Second
	defaultTimeout = 15 * time.Second
)

// SupabaseClient talks to a Supabase project over HTTP.
type SupabaseClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  logging.Logger
	now     func() time.Time

	mu      sync.Mutex
	storage sessions.Storage

	vaults vaults.Repository
	closer io.Closer
}

var _ Backend = (*SupabaseClient)(nil)
var _ Auth = (*SupabaseClient)(nil)

type Option func(*SupabaseClient)

func WithHTTPClient(h *http.Client) Option {
	return func(c *SupabaseClient) { c.http = h }
}

func WithTimeout(d time.Duration) Option {
	return func(c *SupabaseClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *SupabaseClient) { c.now = now }
}

// WithVaults replaces the PostgREST vault repository. closer, if not nil, is
// closed together with the client.
func WithVaults(repo vaults.Repository, closer io.Closer) Option {
	return func(c *SupabaseClient) {
		c.vaults = repo
		c.closer = closer
	}
}

func NewSupabaseClient(baseURL, apiKey string, storage sessions.Storage, logger logging.Logger, opts ...Option) (*SupabaseClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", baseURL)
	}
	if storage == nil {
		storage = sessions.NewMemory()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	c := &SupabaseClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger,
		now:     time.Now,
		storage: storage,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.vaults == nil {
		c.vaults = &RestVaults{c: c}
	}
	return c, nil
}

func (c *SupabaseClient) Configured() bool          { return true }
func (c *SupabaseClient) Auth() Auth                { return c }
func (c *SupabaseClient) Vaults() vaults.Repository { return c.vaults }

func (c *SupabaseClient) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	header http.Header
	// token is the bearer; the anon key is sent when empty.
	token string
	// needSession fails authorized calls with ErrNoSession instead of
	// falling back to the anon key.
	needSession bool
}

func (c *SupabaseClient) do(ctx context.Context, r request, out any) error {
	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	token := r.token
	if token == "" {
		token = c.apiKey
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// authorized sends r with the current access token. A 401 triggers a single
// refresh and retry.
func (c *SupabaseClient) authorized(ctx context.Context, r request, out any) error {
	s, err := c.currentSession(ctx)
	if err != nil {
		return err
	}
	if s == nil && r.needSession {
		return ErrNoSession
	}
	if s != nil {
		r.token = s.AccessToken
	}

	err = c.do(ctx, r, out)
	if err == nil || s == nil || s.RefreshToken == "" || !errors.Is(err, ErrUnauthorized) {
		return err
	}

	c.mu.Lock()
	fresh, rerr := c.refreshLocked(ctx, s.RefreshToken)
	c.mu.Unlock()
	if rerr != nil {
		return rerr
	}
	if fresh == nil {
		return err
	}

	r.token = fresh.AccessToken
	return c.do(ctx, r, out)
}

// currentSession loads the stored session, refreshing it when it is about
// to expire.
func (c *SupabaseClient) currentSession(ctx context.Context) (*models.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if s == nil {
		return nil, nil
	}
	if s.RefreshToken != "" && s.ExpiresWithin(c.now(), refreshMargin) {
		return c.refreshLocked(ctx, s.RefreshToken)
	}
	return s, nil
}

// refreshLocked exchanges refreshToken for a new session. It must be called
// with c.mu held. A rejected refresh token drops the stored session and
// yields (nil, nil).
func (c *SupabaseClient) refreshLocked(ctx context.Context, refreshToken string) (*models.Session, error) {
	var tr tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPath + "/token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   map[string]string{"refresh_token": refreshToken},
	}, &tr)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			c.logger.Warn(ctx, "refresh token rejected", "status", apiErr.Status, "error", apiErr.Message)
			if cerr := c.storage.Clear(ctx); cerr != nil {
				return nil, fmt.Errorf("clear session: %w", cerr)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	s := tr.session(c.now())
	if s == nil {
		return nil, fmt.Errorf("refresh session: %w", ErrNoSession)
	}
	if err := c.storage.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	c.logger.Debug(ctx, "session refreshed", "expires_at", s.ExpiresAt)
	return s, nil
}

func (c *SupabaseClient) saveSession(ctx context.Context, s *models.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.storage.Save(ctx, s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
