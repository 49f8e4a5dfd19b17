package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/staykeeper/internal/client/models"
	"github.com/dmitrijs2005/staykeeper/internal/client/repositories/vaults"
)

const (
	vaultsPath   = restPath + "/vaults"
	vaultColumns = "user_id,state,app_version,last_synced"
)

// RestVaults is the vault repository served by PostgREST. Row level
// security on the table decides which rows the session can see.
type RestVaults struct {
	c *SupabaseClient
}

var _ vaults.Repository = (*RestVaults)(nil)

func (r *RestVaults) Get(ctx context.Context, userID string) (*models.VaultRow, error) {
	if userID == "" {
		return nil, vaults.ErrInvalidUserID
	}

	var rows []models.VaultRow
	err := r.c.authorized(ctx, request{
		method: http.MethodGet,
		path:   vaultsPath,
		query:  url.Values{"select": {vaultColumns}, "user_id": {"eq." + userID}},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("get vault: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Upsert writes the whole row, replacing any existing one for the user.
func (r *RestVaults) Upsert(ctx context.Context, row *models.VaultRow) error {
	if row == nil || row.UserID == "" {
		return vaults.ErrInvalidUserID
	}

	out := *row
	if len(out.State) == 0 {
		out.State = json.RawMessage("{}")
	}

	header := http.Header{}
	header.Set("Prefer", "resolution=merge-duplicates,return=minimal")

	err := r.c.authorized(ctx, request{
		method: http.MethodPost,
		path:   vaultsPath,
		query:  url.Values{"on_conflict": {"user_id"}},
		body:   []models.VaultRow{out},
		header: header,
	}, nil)
	if err != nil {
		return fmt.Errorf("upsert vault: %w", err)
	}
	return nil
}

func (r *RestVaults) List(ctx context.Context) ([]models.VaultRow, error) {
	var rows []models.VaultRow
	err := r.c.authorized(ctx, request{
		method: http.MethodGet,
		path:   vaultsPath,
		query:  url.Values{"select": {vaultColumns}, "order": {"created_at.asc"}},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("list vaults: %w", err)
	}
	return rows, nil
}

func (r *RestVaults) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return vaults.ErrInvalidUserID
	}

	header := http.Header{}
	header.Set("Prefer", "return=representation")

	// Row level security filters a forbidden delete to zero rows with a
	// success status, so the returned rows are the only proof of removal.
	var deleted []struct {
		UserID string `json:"user_id"`
	}
	err := r.c.authorized(ctx, request{
		method: http.MethodDelete,
		path:   vaultsPath,
		query:  url.Values{"select": {"user_id"}, "user_id": {"eq." + userID}},
		header: header,
	}, &deleted)
	if err != nil {
		return fmt.Errorf("delete vault: %w", err)
	}
	if len(deleted) == 0 {
		return fmt.Errorf("delete vault: %w", vaults.ErrNotDeleted)
	}
	return nil
}
