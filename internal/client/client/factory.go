package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/staykeeper/internal/client/config"
	"github.com/dmitrijs2005/staykeeper/internal/client/repositories/vaults"
	"github.com/dmitrijs2005/staykeeper/internal/client/sessions"
	"github.com/dmitrijs2005/staykeeper/internal/logging"
)

// New builds the backend handle from cfg. A missing URL or key is not an
// error: the result is Unconfigured.
func New(ctx context.Context, cfg *config.Config, storage sessions.Storage, logger logging.Logger) (Backend, error) {
	urlPresent, keyPresent := cfg.Backend()
	logger.Info(ctx, "backend credentials", "url_present", urlPresent, "key_present", keyPresent)

	if !urlPresent || !keyPresent {
		return Unconfigured{}, nil
	}

	opts := []Option{WithTimeout(cfg.RequestTimeout)}
	if cfg.DatabaseDSN != "" {
		db, err := vaults.OpenPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("open vault database: %w", err)
		}
		opts = append(opts, WithVaults(vaults.NewPostgresRepository(db), db))
		logger.Info(ctx, "vaults served by direct database connection")
	}

	c, err := NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, storage, logger, opts...)
	if err != nil {
		return nil, err
	}

	if cfg.InitialURL != "" {
		if _, err := c.DetectSessionInURL(ctx, cfg.InitialURL); err != nil {
			logger.Warn(ctx, "no session taken from initial url", "error", err)
		}
	}
	return c, nil
}
