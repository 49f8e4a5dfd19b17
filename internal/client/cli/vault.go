package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dmitrijs2005/staykeeper/internal/client/models"
)

var (
	errNotLoggedIn = errors.New("not logged in")
	errPushFailed  = errors.New("push failed")
)

var listKeys = []string{
	models.KeyProperties,
	models.KeyAllBookings,
	models.KeyAllTransactions,
	models.KeyAllGuests,
	models.KeyAllStaffLogs,
	models.KeyAllInventory,
	models.KeyStayPackages,
}

// Show prints a summary of the working vault, or the whole document with
// "show json".
func (a *App) Show(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		a.printf("Please log in first\n")
		return errNotLoggedIn
	}

	if len(args) > 0 && args[0] == "json" {
		b, err := json.MarshalIndent(a.vault, "", "  ")
		if err != nil {
			return err
		}
		a.printf("%s\n", b)
		return nil
	}

	a.printf("Owner:           %s\n", a.vault.UserEmail())
	if name, _ := a.vault[models.KeyUserName].(string); name != "" {
		a.printf("Name:            %s\n", name)
	}
	if active, _ := a.vault[models.KeyActivePropertyID].(string); active != "" {
		a.printf("Active property: %s\n", active)
	}
	for _, key := range listKeys {
		items, _ := a.vault[key].([]any)
		a.printf("%-16s %d\n", key+":", len(items))
	}
	return nil
}

// Push reads a JSON document from path and stores it as the whole vault.
func (a *App) Push(ctx context.Context, path string) error {
	if !a.isLoggedIn() {
		a.printf("Please log in first\n")
		return errNotLoggedIn
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		a.printf("Error reading file: %v\n", err)
		return err
	}
	v, err := models.ParseVault(raw)
	if err != nil {
		a.printf("File is not a JSON object: %v\n", err)
		return err
	}

	if !a.sync.PushData(ctx, v, "") {
		a.printf("Push failed, the vault was not saved\n")
		return errPushFailed
	}
	a.adopt(v)
	a.printf("Vault saved\n")
	return nil
}

// Sync pushes the working vault again.
func (a *App) Sync(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.printf("Please log in first\n")
		return errNotLoggedIn
	}
	if !a.sync.PushData(ctx, a.vault, "") {
		a.printf("Sync failed\n")
		return errPushFailed
	}
	a.printf("Vault synchronized\n")
	return nil
}

// Export writes the working vault to path.
func (a *App) Export(ctx context.Context, path string) error {
	if !a.isLoggedIn() {
		a.printf("Please log in first\n")
		return errNotLoggedIn
	}
	b, err := json.MarshalIndent(a.vault, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		a.printf("Error writing file: %v\n", err)
		return err
	}
	a.printf("Vault written to %s\n", path)
	return nil
}

// AdminList prints every account the backend lets the caller see.
func (a *App) AdminList(ctx context.Context) error {
	accounts, err := a.sync.AdminListAccounts(ctx)
	if err != nil {
		a.printf("Error listing accounts: %v\n", err)
		return err
	}
	if len(accounts) == 0 {
		a.printf("No accounts\n")
		return nil
	}

	sort.SliceStable(accounts, func(i, j int) bool {
		return strings.ToLower(accounts[i].Label) < strings.ToLower(accounts[j].Label)
	})
	for _, acc := range accounts {
		synced := "never"
		if !acc.LastSynced.IsZero() {
			synced = acc.LastSynced.Local().Format("2006-01-02 15:04")
		}
		a.printf("%-36s  %-32s  %s\n", acc.UserID, acc.Label, synced)
	}
	return nil
}

// AdminGet prints the vault whose owner email matches email.
func (a *App) AdminGet(ctx context.Context, email string) error {
	v, err := a.sync.AdminGetUserData(ctx, email)
	if err != nil {
		a.printf("Error: %v\n", err)
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	a.printf("%s\n", b)
	return nil
}

// AdminDelete removes the vault of email after a confirmation prompt.
func (a *App) AdminDelete(ctx context.Context, email string) error {
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete the vault of %s? (yes/no)", email), a.out)
	if err != nil {
		return err
	}
	if answer != "yes" {
		a.printf("Cancelled\n")
		return nil
	}
	if err := a.sync.AdminDeleteAccount(ctx, email); err != nil {
		a.printf("Error: %v\n", err)
		return err
	}
	a.printf("Vault deleted. The account itself still exists.\n")
	return nil
}
