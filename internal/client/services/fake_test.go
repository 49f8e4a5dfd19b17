package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/staykeeper/internal/client/client"
	"github.com/dmitrijs2005/staykeeper/internal/client/models"
	"github.com/dmitrijs2005/staykeeper/internal/client/repositories/vaults"
	"github.com/dmitrijs2005/staykeeper/internal/logging"
	"github.com/google/uuid"
)

var fixedNow = time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

// ---- fake backend ----

type fakeBackend struct {
	configured bool
	auth       *fakeAuth
	vaults     *fakeVaults
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		configured: true,
		auth:       &fakeAuth{accounts: map[string]*fakeAccount{}},
		vaults:     &fakeVaults{rows: map[string]models.VaultRow{}},
	}
}

func (b *fakeBackend) Configured() bool          { return b.configured }
func (b *fakeBackend) Auth() client.Auth         { return b.auth }
func (b *fakeBackend) Vaults() vaults.Repository { return b.vaults }
func (b *fakeBackend) Close() error              { return nil }

type fakeAccount struct {
	id        string
	email     string
	password  string
	name      string
	confirmed bool
}

type fakeAuth struct {
	mu       sync.Mutex
	accounts map[string]*fakeAccount
	current  *models.Session

	requireConfirmation bool
	signInNoUser        bool
	signUpEmpty         bool

	signInErr     error
	signUpErr     error
	getSessionErr error
	getUserErr    error
	signOutErr    error

	calls      int
	lastEmail  string
	lastPass   string
	lastSignUp map[string]any
}

// addAccount registers a confirmed identity and returns its id.
func (a *fakeAuth) addAccount(email, password, name string) string {
	id := uuid.NewString()
	a.accounts[email] = &fakeAccount{id: id, email: email, password: password, name: name, confirmed: true}
	return id
}

func (a *fakeAuth) login(acc *fakeAccount) *models.Session {
	a.current = &models.Session{
		AccessToken:  "access-" + acc.id,
		RefreshToken: "refresh-" + acc.id,
		User:         models.Identity{ID: acc.id, Email: acc.email, Name: acc.name},
	}
	cp := *a.current
	return &cp
}

func (a *fakeAuth) GetSession(ctx context.Context) (*models.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.getSessionErr != nil {
		return nil, a.getSessionErr
	}
	if a.current == nil {
		return nil, nil
	}
	cp := *a.current
	return &cp, nil
}

func (a *fakeAuth) SignInWithPassword(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	a.lastEmail, a.lastPass = email, password
	if a.signInErr != nil {
		return nil, a.signInErr
	}
	if a.signInNoUser {
		return &models.AuthResponse{}, nil
	}
	acc, ok := a.accounts[email]
	if !ok || acc.password != password {
		return nil, &client.APIError{Status: 400, Message: "Invalid login credentials"}
	}
	if !acc.confirmed {
		return nil, &client.APIError{Status: 400, Message: "Email not confirmed"}
	}
	s := a.login(acc)
	return &models.AuthResponse{User: &s.User, Session: s}, nil
}

func (a *fakeAuth) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*models.AuthResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	a.lastEmail, a.lastPass, a.lastSignUp = email, password, metadata
	if a.signUpErr != nil {
		return nil, a.signUpErr
	}
	if a.signUpEmpty {
		return &models.AuthResponse{}, nil
	}
	if _, exists := a.accounts[email]; exists {
		return nil, &client.APIError{Status: 422, Message: "User already registered"}
	}

	name, _ := metadata["name"].(string)
	acc := &fakeAccount{id: uuid.NewString(), email: email, password: password, name: name, confirmed: !a.requireConfirmation}
	a.accounts[email] = acc

	user := &models.Identity{ID: acc.id, Email: email, Name: name}
	if a.requireConfirmation {
		return &models.AuthResponse{User: user}, nil
	}
	return &models.AuthResponse{User: user, Session: a.login(acc)}, nil
}

func (a *fakeAuth) SignOut(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	a.current = nil
	return a.signOutErr
}

func (a *fakeAuth) GetUser(ctx context.Context) (*models.Identity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.getUserErr != nil {
		return nil, a.getUserErr
	}
	if a.current == nil {
		return nil, client.ErrNoSession
	}
	u := a.current.User
	return &u, nil
}

func (a *fakeAuth) DetectSessionInURL(ctx context.Context, rawURL string) (*models.Session, error) {
	return nil, nil
}

type fakeVaults struct {
	mu   sync.Mutex
	rows map[string]models.VaultRow

	getErr    error
	upsertErr error
	listErr   error
	deleteErr error

	upserts int
	calls   int
}

func (v *fakeVaults) Get(ctx context.Context, userID string) (*models.VaultRow, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	if v.getErr != nil {
		return nil, v.getErr
	}
	row, ok := v.rows[userID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (v *fakeVaults) Upsert(ctx context.Context, row *models.VaultRow) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	if v.upsertErr != nil {
		return v.upsertErr
	}
	v.upserts++
	v.rows[row.UserID] = *row
	return nil
}

func (v *fakeVaults) List(ctx context.Context) ([]models.VaultRow, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	if v.listErr != nil {
		return nil, v.listErr
	}
	out := make([]models.VaultRow, 0, len(v.rows))
	for _, row := range v.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (v *fakeVaults) Delete(ctx context.Context, userID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	if v.deleteErr != nil {
		return v.deleteErr
	}
	if _, ok := v.rows[userID]; !ok {
		return vaults.ErrNotDeleted
	}
	delete(v.rows, userID)
	return nil
}

// ---- helpers ----

func newService(t *testing.T, b client.Backend) *syncService {
	t.Helper()
	svc := NewSyncService(b, logging.Discard(), "2.0").(*syncService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}
