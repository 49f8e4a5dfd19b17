package cli

import (
	"strings"

	"github.com/dmitrijs2005/staykeeper/internal/client/services"
)

// FriendlyReason maps a failure reason to the text shown to the user.
// Unknown reasons are shown unchanged.
func FriendlyReason(reason string) string {
	lower := strings.ToLower(reason)
	switch {
	case reason == services.ReasonNotInitialized:
		return "The backend is not configured. Set VITE_SUPABASE_URL and VITE_SUPABASE_ANON_KEY (or -a and -k)."
	case strings.Contains(lower, "email not confirmed"):
		return "Your email address is not confirmed yet. Follow the link we sent you, then log in."
	case strings.Contains(lower, "invalid login"):
		return "Wrong email or password."
	case strings.Contains(lower, "confirmation pending"):
		return "Account created. Check your email to confirm it, then log in."
	case strings.Contains(lower, "already registered"):
		return "An account with this email already exists. Try logging in."
	}
	return reason
}

// describeFailure renders an AuthFailure for the terminal.
func describeFailure(f services.AuthFailure) string {
	return FriendlyReason(f.Reason)
}
