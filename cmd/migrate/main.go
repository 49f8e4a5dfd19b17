// Command migrate applies the vaults schema to the project database
// given with -d or DATABASE_URL.
package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/staykeeper/internal/client/config"
	"github.com/dmitrijs2005/staykeeper/internal/client/repositories/vaults"
	"github.com/dmitrijs2005/staykeeper/internal/logging"
	"github.com/dmitrijs2005/staykeeper/internal/schema"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSON(os.Stderr, cfg.LogLevel)

	if cfg.DatabaseDSN == "" {
		logger.Error(ctx, "database dsn is required (-d or DATABASE_URL)")
		os.Exit(2)
	}

	db, err := vaults.OpenPostgres(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Error(ctx, "open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, err := schema.Up(ctx, db)
	if err != nil {
		logger.Error(ctx, "migrate", "error", err)
		os.Exit(1)
	}

	logger.Info(ctx, "schema up to date", "version", version)
}
