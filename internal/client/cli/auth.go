package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/staykeeper/internal/client/services"
	"github.com/dmitrijs2005/staykeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errAuthFailed = errors.New("authentication failed")

// readCredentials prompts for email and password. The caller wipes the
// returned password.
func (a *App) readCredentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// Register prompts for email, password and display name and creates the
// account. A pending confirmation sends the user to login.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	name, err := getSimpleText(a.reader, "Enter display name (optional)", a.out)
	if err != nil {
		return err
	}

	return a.handleResult(ctx, a.sync.CreateAccount(ctx, email, string(password), name), "Account created!")
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.handleResult(ctx, a.sync.Login(ctx, email, string(password)), "Login successful")
}

func (a *App) handleResult(ctx context.Context, res services.AuthResult, okMsg string) error {
	switch r := res.(type) {
	case services.AuthSuccess:
		a.adopt(r.Vault)
		a.printf("%s\n", okMsg)
		if r.Warning != "" {
			a.logger.Warn(ctx, "working on a default vault", "warning", r.Warning)
		}
		return nil
	case services.AuthFailure:
		a.printf("%s\n", describeFailure(r))
		if r.Code == services.FailureConfirmationPending {
			a.printf("Use 'login' once your email is confirmed.\n")
		}
		return errAuthFailed
	}
	return errAuthFailed
}

// Resume picks up the stored session, if any.
func (a *App) Resume(ctx context.Context) error {
	v, ok := a.sync.ResumeSession(ctx)
	if !ok {
		return nil
	}
	a.adopt(v)
	a.printf("Session resumed\n")
	return nil
}

// Logout signs out remotely and forgets the working vault.
func (a *App) Logout(ctx context.Context) error {
	a.sync.Logout(ctx)
	a.vault = nil
	a.email = ""
	a.printf("Logged out\n")
	return nil
}
