package services

import "github.com/dmitrijs2005/staykeeper/internal/client/models"

// FailureCode classifies an AuthFailure.
type FailureCode int

const (
	FailureNotInitialized FailureCode = iota + 1
	FailureRejected
	FailureNoIdentity
	FailureConfirmationPending
)

func (c FailureCode) String() string {
	switch c {
	case FailureNotInitialized:
		return "not_initialized"
	case FailureRejected:
		return "rejected"
	case FailureNoIdentity:
		return "no_identity"
	case FailureConfirmationPending:
		return "confirmation_pending"
	}
	return "unknown"
}

const (
	ReasonNotInitialized      = "client not initialized"
	ReasonNoIdentity          = "authentication succeeded but no identity returned"
	ReasonConfirmationPending = "confirmation pending: check your email to confirm your account"
	ReasonNoRegistration      = "registration returned neither identity nor session"
)

// AuthResult is either AuthSuccess or AuthFailure.
type AuthResult interface {
	authResult()
}

// AuthSuccess carries the vault to start the application with. Warning is
// set when the vault is a fresh default because the stored one could not
// be read or written.
type AuthSuccess struct {
	Vault   models.Vault
	Warning string
}

// AuthFailure carries a human-readable reason. Remote rejections keep the
// remote message as is.
type AuthFailure struct {
	Code   FailureCode
	Reason string
}

func (AuthSuccess) authResult() {}
func (AuthFailure) authResult() {}
