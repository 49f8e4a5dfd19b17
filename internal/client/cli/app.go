package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/staykeeper/internal/client/client"
	"github.com/dmitrijs2005/staykeeper/internal/client/config"
	"github.com/dmitrijs2005/staykeeper/internal/client/models"
	"github.com/dmitrijs2005/staykeeper/internal/client/services"
	"github.com/dmitrijs2005/staykeeper/internal/client/sessions"
	"github.com/dmitrijs2005/staykeeper/internal/logging"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	backend client.Backend
	sync    services.SyncService
	db      *sql.DB

	vault models.Vault
	email string

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local cache, builds the backend handle once and binds
// the sync service to it.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stderr, c.LogLevel)

	db, err := client.InitDatabase(ctx, c.CachePath)
	if err != nil {
		logger.Error(ctx, "error initializing cache", "path", c.CachePath, "error", err)
		return nil, err
	}

	backend, err := client.New(ctx, c, sessions.NewSQLite(db, c.SessionKey), logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:  c,
		logger:  logger,
		backend: backend,
		sync:    services.NewSyncService(backend, logger, c.AppVersion),
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func (a *App) Close() error {
	var errs []error
	if a.backend != nil {
		errs = append(errs, a.backend.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

// Run resumes the stored session, if any, and blocks in the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.printf("Welcome to staykeeper (type 'help' for commands)\n")
	if !a.backend.Configured() {
		a.printf("%s\n", FriendlyReason(services.ReasonNotInitialized))
	}
	_ = a.Resume(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.vault != nil
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return ""
	}
	if a.email != "" {
		return "(" + a.email + ")"
	}
	return "(signed in)"
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// adopt makes v the working vault.
func (a *App) adopt(v models.Vault) {
	a.vault = v
	a.email = v.UserEmail()
}
