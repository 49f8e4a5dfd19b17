// Package vaults stores the one-document-per-user vault rows.
package vaults

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/staykeeper/internal/client/models"
)

var (
	ErrInvalidUserID = errors.New("invalid user id")
	// ErrNotDeleted means the delete matched no row the caller may remove.
	ErrNotDeleted = errors.New("vault not deleted")
)

// Repository is the remote `vaults` table. Upsert fully replaces the row
// keyed by UserID; there is no merge.
type Repository interface {
	// Get returns (nil, nil) when the user has no row.
	Get(ctx context.Context, userID string) (*models.VaultRow, error)
	Upsert(ctx context.Context, row *models.VaultRow) error
	List(ctx context.Context) ([]models.VaultRow, error)
	// Delete returns ErrNotDeleted when no row was removed.
	Delete(ctx context.Context, userID string) error
}
