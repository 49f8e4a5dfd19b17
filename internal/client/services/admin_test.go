package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/staykeeper/internal/client/client"
	"github.com/dmitrijs2005/staykeeper/internal/client/models"
	"github.com/dmitrijs2005/staykeeper/internal/client/repositories/vaults"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRows(b *fakeBackend) (annID, anonID string) {
	annID = b.auth.addAccount("ann@example.com", "secret", "Ann")
	anonID = "0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0"
	b.vaults.rows[annID] = models.VaultRow{UserID: annID, State: json.RawMessage(`{"userEmail":"Ann@Example.com","allBookings":[]}`), LastSynced: fixedNow}
	b.vaults.rows[anonID] = models.VaultRow{UserID: anonID, State: json.RawMessage(`{"allBookings":[]}`)}
	return annID, anonID
}

func TestAdminListAccounts(t *testing.T) {
	b := newFakeBackend()
	annID, anonID := seedRows(b)
	svc := newService(t, b)

	got, err := svc.AdminListAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	labels := map[string]string{}
	for _, s := range got {
		labels[s.UserID] = s.Label
		if s.UserID == annID {
			assert.True(t, s.LastSynced.Equal(fixedNow))
		}
	}
	assert.Equal(t, "Ann@Example.com", labels[annID])
	assert.Equal(t, "User 0f1e2d3c", labels[anonID])
}

func TestAdminListAccounts_Error(t *testing.T) {
	b := newFakeBackend()
	b.vaults.listErr = client.ErrUnauthorized
	svc := newService(t, b)

	_, err := svc.AdminListAccounts(context.Background())
	require.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestAdminGetUserData(t *testing.T) {
	b := newFakeBackend()
	seedRows(b)
	b.auth.addAccount("novault@example.com", "pw", "No Vault")
	svc := newService(t, b)

	for _, email := range []string{"ann@example.com", "ANN@EXAMPLE.COM", "  Ann@example.com "} {
		v, err := svc.AdminGetUserData(context.Background(), email)
		require.NoError(t, err, email)
		assert.Equal(t, "Ann@Example.com", v.UserEmail())
	}

	_, err := svc.AdminGetUserData(context.Background(), "novault@example.com")
	require.ErrorIs(t, err, ErrAccountNotFound)

	_, err = svc.AdminGetUserData(context.Background(), "")
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAdminDeleteAccount_LoginReprovisions(t *testing.T) {
	b := newFakeBackend()
	annID, anonID := seedRows(b)
	svc := newService(t, b)

	require.NoError(t, svc.AdminDeleteAccount(context.Background(), "ANN@example.com"))
	_, found := b.vaults.rows[annID]
	assert.False(t, found)
	_, found = b.vaults.rows[anonID]
	assert.True(t, found)

	require.ErrorIs(t, svc.AdminDeleteAccount(context.Background(), "ann@example.com"), ErrAccountNotFound)

	ok := requireSuccess(t, svc.Login(context.Background(), "ann@example.com", "secret"))
	assert.Empty(t, ok.Warning)
	assertDefaultVault(t, ok.Vault, "ann@example.com")
	_, found = b.vaults.rows[annID]
	assert.True(t, found)
}

func TestAdminDeleteAccount_DeleteError(t *testing.T) {
	b := newFakeBackend()
	seedRows(b)
	b.vaults.deleteErr = client.ErrUnavailable
	svc := newService(t, b)

	require.ErrorIs(t, svc.AdminDeleteAccount(context.Background(), "ann@example.com"), client.ErrUnavailable)
}

func TestAdminDeleteAccount_RowSurvives(t *testing.T) {
	b := newFakeBackend()
	annID, _ := seedRows(b)
	b.vaults.deleteErr = vaults.ErrNotDeleted
	svc := newService(t, b)

	err := svc.AdminDeleteAccount(context.Background(), "ann@example.com")
	require.ErrorIs(t, err, vaults.ErrNotDeleted)
	assert.Contains(t, b.vaults.rows, annID)
}

func TestAdmin_UnconfiguredHandle(t *testing.T) {
	svc := NewSyncService(client.Unconfigured{}, nil, "2.0")
	ctx := context.Background()

	_, err := svc.AdminListAccounts(ctx)
	assert.ErrorIs(t, err, client.ErrNotInitialized)

	_, err = svc.AdminGetUserData(ctx, "ann@example.com")
	assert.ErrorIs(t, err, client.ErrNotInitialized)
	assert.NotErrorIs(t, err, ErrAccountNotFound)

	err = svc.AdminDeleteAccount(ctx, "ann@example.com")
	assert.ErrorIs(t, err, client.ErrNotInitialized)
	assert.NotErrorIs(t, err, ErrAccountNotFound)
}
