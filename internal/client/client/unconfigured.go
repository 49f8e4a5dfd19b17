package client

import (
	"context"

	"github.com/dmitrijs2005/staykeeper/internal/client/models"
	"github.com/dmitrijs2005/staykeeper/internal/client/repositories/vaults"
)

// Unconfigured stands in for the backend when its URL or key is missing.
type Unconfigured struct{}

var (
	_ Backend           = Unconfigured{}
	_ Auth              = unconfiguredAuth{}
	_ vaults.Repository = unconfiguredVaults{}
)

func (Unconfigured) Configured() bool          { return false }
func (Unconfigured) Auth() Auth                { return unconfiguredAuth{} }
func (Unconfigured) Vaults() vaults.Repository { return unconfiguredVaults{} }
func (Unconfigured) Close() error              { return nil }

type unconfiguredAuth struct{}

func (unconfiguredAuth) GetSession(context.Context) (*models.Session, error) {
	return nil, ErrNotInitialized
}

func (unconfiguredAuth) SignInWithPassword(context.Context, string, string) (*models.AuthResponse, error) {
	return nil, ErrNotInitialized
}

func (unconfiguredAuth) SignUp(context.Context, string, string, map[string]any) (*models.AuthResponse, error) {
	return nil, ErrNotInitialized
}

func (unconfiguredAuth) SignOut(context.Context) error {
	return ErrNotInitialized
}

func (unconfiguredAuth) GetUser(context.Context) (*models.Identity, error) {
	return nil, ErrNotInitialized
}

func (unconfiguredAuth) DetectSessionInURL(context.Context, string) (*models.Session, error) {
	return nil, ErrNotInitialized
}

type unconfiguredVaults struct{}

func (unconfiguredVaults) Get(context.Context, string) (*models.VaultRow, error) {
	return nil, ErrNotInitialized
}

func (unconfiguredVaults) Upsert(context.Context, *models.VaultRow) error {
	return ErrNotInitialized
}

func (unconfiguredVaults) List(context.Context) ([]models.VaultRow, error) {
	return nil, ErrNotInitialized
}

func (unconfiguredVaults) Delete(context.Context, string) error {
	return ErrNotInitialized
}
