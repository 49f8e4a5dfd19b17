// Package services contains the application services of the staykeeper
// client. SyncService reconciles the auth session with the user's vault.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/staykeeper/internal/client/client"
	"github.com/dmitrijs2005/staykeeper/internal/client/models"
	"github.com/dmitrijs2005/staykeeper/internal/logging"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrVaultNotProvisioned = errors.New("vault could not be provisioned")
)

// SyncService decides which vault a user starts with after resume, login
// or signup, and moves vaults to and from the remote table.
//
// Contract:
//   - ResumeSession, Login and CreateAccount never fail an authenticated
//     user because of the data tier; they fall back to a default vault.
//   - FetchVault is the one operation that reports vault read errors.
//   - PushData reports write errors as false and logs them.
//   - The Admin* methods scan every row the backend lets the caller read.
type SyncService interface {
	// ResumeSession returns the vault of the stored session, or false when
	// there is no usable session.
	ResumeSession(ctx context.Context) (models.Vault, bool)
	Login(ctx context.Context, email, password string) AuthResult
	// CreateAccount registers email. An empty displayName defaults to the
	// local part of the email.
	CreateAccount(ctx context.Context, email, password, displayName string) AuthResult
	// PushData stores state as the whole vault of userID, or of the current
	// identity when userID is empty.
	PushData(ctx context.Context, state models.Vault, userID string) bool
	// FetchVault returns the vault of userID, provisioning a default one
	// when the user has none. An empty userID means the current identity.
	FetchVault(ctx context.Context, userID string) (models.Vault, error)
	Logout(ctx context.Context)

	AdminListAccounts(ctx context.Context) ([]models.AccountSummary, error)
	AdminGetUserData(ctx context.Context, email string) (models.Vault, error)
	AdminDeleteAccount(ctx context.Context, email string) error
}

type syncService struct {
	backend    client.Backend
	logger     logging.Logger
	appVersion string
	now        func() time.Time
}

// NewSyncService binds a SyncService to backend. appVersion is stamped on
// every pushed row.
func NewSyncService(backend client.Backend, logger logging.Logger, appVersion string) SyncService {
	if backend == nil {
		backend = client.Unconfigured{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &syncService{
		backend:    backend,
		logger:     logger,
		appVersion: appVersion,
		now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func defaultDisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

func (s *syncService) ResumeSession(ctx context.Context) (models.Vault, bool) {
	if !s.backend.Configured() {
		return nil, false
	}

	session, err := s.backend.Auth().GetSession(ctx)
	if err != nil {
		s.logger.Warn(ctx, "session lookup failed", "error", err)
		return nil, false
	}
	if session == nil {
		return nil, false
	}

	log := s.logger.With("user_id", session.User.ID)

	vault, err := s.FetchVault(ctx, session.User.ID)
	if err != nil {
		log.Warn(ctx, "vault fetch failed on resume, using default vault", "error", err)
		return models.NewDefaultVault(session.User.Email, session.User.Name, s.now()), true
	}
	log.Info(ctx, "session resumed")
	return vault, true
}

func (s *syncService) Login(ctx context.Context, email, password string) AuthResult {
	if !s.backend.Configured() {
		return AuthFailure{Code: FailureNotInitialized, Reason: ReasonNotInitialized}
	}

	email = normalizeEmail(email)
	password = strings.TrimSpace(password)

	res, err := s.backend.Auth().SignInWithPassword(ctx, email, password)
	if err != nil {
		s.logger.Info(ctx, "login rejected", "email", email, "error", err)
		return rejection(err)
	}
	if res == nil || res.User == nil || res.User.ID == "" {
		return AuthFailure{Code: FailureNoIdentity, Reason: ReasonNoIdentity}
	}

	user := res.User
	log := s.logger.With("user_id", user.ID)

	vault, err := s.FetchVault(ctx, user.ID)
	if err != nil {
		log.Warn(ctx, "vault unavailable after login, using default vault", "error", err)
		userEmail := user.Email
		if userEmail == "" {
			userEmail = email
		}
		return AuthSuccess{
			Vault:   models.NewDefaultVault(userEmail, user.Name, s.now()),
			Warning: fmt.Sprintf("vault sync failed: %v", err),
		}
	}

	log.Info(ctx, "logged in")
	return AuthSuccess{Vault: vault}
}

func (s *syncService) CreateAccount(ctx context.Context, email, password, displayName string) AuthResult {
	if !s.backend.Configured() {
		return AuthFailure{Code: FailureNotInitialized, Reason: ReasonNotInitialized}
	}

	email = normalizeEmail(email)
	password = strings.TrimSpace(password)
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = defaultDisplayName(email)
	}

	res, err := s.backend.Auth().SignUp(ctx, email, password, map[string]any{"name": name})
	if err != nil {
		s.logger.Info(ctx, "registration rejected", "email", email, "error", err)
		return rejection(err)
	}
	if res == nil || (res.User == nil && res.Session == nil) {
		return AuthFailure{Code: FailureNoIdentity, Reason: ReasonNoRegistration}
	}

	if res.Session == nil {
		s.logger.Info(ctx, "registration awaits email confirmation", "email", email)
		return AuthFailure{Code: FailureConfirmationPending, Reason: ReasonConfirmationPending}
	}

	userID := res.Session.User.ID
	if userID == "" && res.User != nil {
		userID = res.User.ID
	}

	vault := models.NewDefaultVault(email, name, s.now())
	if !s.PushData(ctx, vault, userID) {
		return AuthSuccess{Vault: vault, Warning: "vault could not be saved, changes stay local until the next push"}
	}

	s.logger.Info(ctx, "account created", "user_id", userID)
	return AuthSuccess{Vault: vault}
}

func rejection(err error) AuthFailure {
	if errors.Is(err, client.ErrNotInitialized) {
		return AuthFailure{Code: FailureNotInitialized, Reason: ReasonNotInitialized}
	}
	return AuthFailure{Code: FailureRejected, Reason: err.Error()}
}

// currentUser resolves the identity of the stored session.
func (s *syncService) currentUser(ctx context.Context) (*models.Identity, error) {
	user, err := s.backend.Auth().GetUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil || user.ID == "" {
		return nil, fmt.Errorf("get user: %w", client.ErrNoSession)
	}
	return user, nil
}

func (s *syncService) PushData(ctx context.Context, state models.Vault, userID string) bool {
	if !s.backend.Configured() {
		s.logger.Warn(ctx, "push skipped", "error", client.ErrNotInitialized)
		return false
	}

	if userID == "" {
		user, err := s.currentUser(ctx)
		if err != nil {
			s.logger.Error(ctx, "push failed: no identity", "error", err)
			return false
		}
		userID = user.ID
	}

	if state == nil {
		state = models.Vault{}
	}
	raw, err := json.Marshal(state)
	if err != nil {
		s.logger.Error(ctx, "push failed: encode vault", "user_id", userID, "error", err)
		return false
	}

	row := &models.VaultRow{
		UserID:     userID,
		State:      raw,
		AppVersion: s.appVersion,
		LastSynced: s.now().UTC(),
	}
	if err := s.backend.Vaults().Upsert(ctx, row); err != nil {
		s.logger.Error(ctx, "push failed", "user_id", userID, "error", err)
		return false
	}

	s.logger.Debug(ctx, "vault pushed", "user_id", userID, "bytes", len(raw))
	return true
}

func (s *syncService) FetchVault(ctx context.Context, userID string) (models.Vault, error) {
	if !s.backend.Configured() {
		return nil, client.ErrNotInitialized
	}

	if userID == "" {
		user, err := s.currentUser(ctx)
		if err != nil {
			return nil, err
		}
		userID = user.ID
	}

	row, err := s.backend.Vaults().Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch vault: %w", err)
	}

	if row == nil {
		return s.provision(ctx, userID)
	}

	vault, err := models.ParseVault(row.State)
	if err != nil {
		return nil, fmt.Errorf("decode vault: %w", err)
	}
	return vault, nil
}

// provision seeds and stores the default vault of userID.
func (s *syncService) provision(ctx context.Context, userID string) (models.Vault, error) {
	var email, name string
	if user, err := s.currentUser(ctx); err != nil {
		s.logger.Warn(ctx, "provisioning vault without profile", "user_id", userID, "error", err)
	} else {
		email, name = user.Email, user.Name
	}

	vault := models.NewDefaultVault(email, name, s.now())
	if !s.PushData(ctx, vault, userID) {
		return nil, ErrVaultNotProvisioned
	}

	s.logger.Info(ctx, "vault provisioned", "user_id", userID)
	return vault, nil
}

func (s *syncService) Logout(ctx context.Context) {
	if !s.backend.Configured() {
		return
	}
	if err := s.backend.Auth().SignOut(ctx); err != nil {
		s.logger.Warn(ctx, "sign out failed", "error", err)
		return
	}
	s.logger.Info(ctx, "logged out")
}
