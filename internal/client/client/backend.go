package client

import (
	"context"

	"github.com/dmitrijs2005/staykeeper/internal/client/models"
	"github.com/dmitrijs2005/staykeeper/internal/client/repositories/vaults"
)

// Backend is the process-wide handle to the remote service.
type Backend interface {
	// Configured reports whether a real remote is behind this handle.
	Configured() bool
	Auth() Auth
	Vaults() vaults.Repository
	Close() error
}

// Auth is the identity-service surface the client uses.
type Auth interface {
	// GetSession returns the stored session, refreshed if it was about to
	// expire, or (nil, nil) when there is none.
	GetSession(ctx context.Context) (*models.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*models.AuthResponse, error)
	// SignUp registers a new account. metadata is stored as user metadata.
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*models.AuthResponse, error)
	SignOut(ctx context.Context) error
	// GetUser returns the identity of the current session.
	GetUser(ctx context.Context) (*models.Identity, error)
	// DetectSessionInURL adopts tokens carried in the fragment or query of
	// rawURL. It returns (nil, nil) when the URL carries none.
	DetectSessionInURL(ctx context.Context, rawURL string) (*models.Session, error)
}
