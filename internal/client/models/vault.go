package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Keys of the vault document that this layer knows about. Everything else
// in the document is opaque.
const (
	KeyProperties       = "properties"
	KeyActivePropertyID = "activePropertyId"
	KeyAllBookings      = "allBookings"
	KeyAllTransactions  = "allTransactions"
	KeyAllGuests        = "allGuests"
	KeyAllStaffLogs     = "allStaffLogs"
	KeyAllInventory     = "allInventory"
	KeyStayPackages     = "stayPackages"
	KeyTimestamp        = "timestamp"
	KeyUserEmail        = "userEmail"
	KeyUserName         = "userName"

	DefaultActivePropertyID = "all"
)

// Vault is one user's whole application state, kept as the decoded JSON
// document. It is overwritten as a whole on every save.
type Vault map[string]any

// StayPackage is a catalog entry seeded into every new vault.
type StayPackage struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// DefaultStayPackages is the fixed seed catalog.
var DefaultStayPackages = []StayPackage{
	{ID: "p1", Title: "Romantic Getaway", Description: "Candlelit dinner, late checkout and a bottle of wine on arrival.", Icon: "heart"},
	{ID: "p2", Title: "Family Adventure", Description: "Connecting rooms, breakfast for everyone and a guided local tour.", Icon: "users"},
	{ID: "p3", Title: "Business Traveler", Description: "Early check-in, workspace access and express laundry.", Icon: "briefcase"},
}

// NewDefaultVault builds the document a vault is provisioned with.
func NewDefaultVault(email, name string, now time.Time) Vault {
	packages := make([]any, 0, len(DefaultStayPackages))
	for _, p := range DefaultStayPackages {
		packages = append(packages, map[string]any{
			"id":          p.ID,
			"title":       p.Title,
			"description": p.Description,
			"icon":        p.Icon,
		})
	}

	return Vault{
		KeyProperties:       []any{},
		KeyActivePropertyID: DefaultActivePropertyID,
		KeyAllBookings:      []any{},
		KeyAllTransactions:  []any{},
		KeyAllGuests:        []any{},
		KeyAllStaffLogs:     []any{},
		KeyAllInventory:     []any{},
		KeyStayPackages:     packages,
		KeyTimestamp:        now.UTC().Format(time.RFC3339Nano),
		KeyUserEmail:        email,
		KeyUserName:         name,
	}
}

// UserEmail returns the denormalized owner email, or "" when absent.
func (v Vault) UserEmail() string {
	s, _ := v[KeyUserEmail].(string)
	return s
}

// ParseVault decodes a stored JSON body. A null or empty body is an empty vault.
// Numbers are kept as json.Number so the body re-encodes unchanged.
func ParseVault(raw []byte) (Vault, error) {
	v := Vault{}
	if len(raw) == 0 || string(raw) == "null" {
		return v, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after vault body")
	}
	if v == nil {
		v = Vault{}
	}
	return v, nil
}

// VaultRow is one row of the remote `vaults` table.
type VaultRow struct {
	UserID     string          `json:"user_id"`
	State      json.RawMessage `json:"state"`
	AppVersion string          `json:"app_version,omitempty"`
	LastSynced time.Time       `json:"last_synced"`
}

// AccountSummary is the admin listing entry for one vault row.
type AccountSummary struct {
	UserID     string
	Label      string
	LastSynced time.Time
}

// SummaryLabel picks the display label of a vault row: the denormalized
// email when present, otherwise a prefix of the user id.
func SummaryLabel(userID string, v Vault) string {
	if email := strings.TrimSpace(v.UserEmail()); email != "" {
		return email
	}
	prefix := userID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return "User " + prefix
}
