package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/staykeeper/internal/client/models"
)

// The admin operations read rows of other users. They only work when the
// table policy lets the caller do so; nothing here enforces it.

func (s *syncService) AdminListAccounts(ctx context.Context) ([]models.AccountSummary, error) {
	rows, err := s.backend.Vaults().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	out := make([]models.AccountSummary, 0, len(rows))
	for _, row := range rows {
		vault, err := models.ParseVault(row.State)
		if err != nil {
			s.logger.Warn(ctx, "unreadable vault body", "user_id", row.UserID, "error", err)
		}
		out = append(out, models.AccountSummary{
			UserID:     row.UserID,
			Label:      models.SummaryLabel(row.UserID, vault),
			LastSynced: row.LastSynced,
		})
	}
	return out, nil
}

// findByEmail scans every row for a vault whose userEmail matches email,
// ignoring case. Rows without a userEmail are never found.
func (s *syncService) findByEmail(ctx context.Context, email string) (*models.VaultRow, models.Vault, error) {
	target := normalizeEmail(email)
	if target == "" {
		return nil, nil, ErrAccountNotFound
	}

	rows, err := s.backend.Vaults().List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list accounts: %w", err)
	}

	for i := range rows {
		vault, err := models.ParseVault(rows[i].State)
		if err != nil {
			continue
		}
		if normalizeEmail(vault.UserEmail()) == target {
			return &rows[i], vault, nil
		}
	}
	return nil, nil, ErrAccountNotFound
}

func (s *syncService) AdminGetUserData(ctx context.Context, email string) (models.Vault, error) {
	_, vault, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return vault, nil
}

// AdminDeleteAccount removes the vault row only. The identity stays and is
// given a fresh vault on its next login.
func (s *syncService) AdminDeleteAccount(ctx context.Context, email string) error {
	row, _, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.backend.Vaults().Delete(ctx, row.UserID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	s.logger.Info(ctx, "vault deleted", "user_id", row.UserID)
	return nil
}
