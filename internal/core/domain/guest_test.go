package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/token-launcher/internal/core/domain"
)

const (
	tokenID   = "tkn.owner.testnet"
	publicKey = "ed25519:8hSHprDq2StXwMtNd43wDTXQYsjXcD4MJTXQYsjXcc"
)

func TestNewGuest(t *testing.T) {
	t.Parallel()

	guest, err := domain.NewGuest(tokenID, "alice."+tokenID, publicKey)
	require.NoError(t, err)
	require.True(t, guest.IsActive())
	require.Equal(t, tokenID+":"+publicKey, guest.Key())
}

func TestFailingNewGuest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		tokenID       string
		accountID     string
		publicKey     string
		expectedError error
	}{
		{"missing_token", "", "alice." + tokenID, publicKey, domain.ErrGuestMissingToken},
		{"missing_public_key", tokenID, "alice." + tokenID, "", domain.ErrGuestMissingPublicKey},
		{"other_token", tokenID, "alice.other.owner.testnet", publicKey, domain.ErrGuestInvalidAccountID},
		{"token_itself", tokenID, tokenID, publicKey, domain.ErrGuestInvalidAccountID},
		{"nested_account", tokenID, "a.b." + tokenID, publicKey, domain.ErrGuestInvalidAccountID},
		{"uppercase", tokenID, "Alice." + tokenID, publicKey, domain.ErrGuestInvalidAccountID},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			guest, err := domain.NewGuest(tt.tokenID, tt.accountID, tt.publicKey)
			require.ErrorIs(t, err, tt.expectedError)
			require.Nil(t, guest)
		})
	}
}

func TestGuestStatus(t *testing.T) {
	t.Parallel()

	guest, err := domain.NewGuest(tokenID, "alice."+tokenID, publicKey)
	require.NoError(t, err)

	require.ErrorIs(t, guest.Reactivate("bob."+tokenID, ""), domain.ErrGuestAlreadyExists)

	require.NoError(t, guest.MarkRemoved())
	require.Equal(t, domain.GuestRemoved, guest.Status)
	require.ErrorIs(t, guest.MarkUpgraded(), domain.ErrGuestNotActive)

	require.ErrorIs(
		t, guest.Reactivate("bob.other.testnet", ""), domain.ErrGuestInvalidAccountID,
	)
	require.NoError(t, guest.Reactivate("bob."+tokenID, "intent"))
	require.True(t, guest.IsActive())
	require.Equal(t, "bob."+tokenID, guest.AccountID)

	require.NoError(t, guest.MarkUpgraded())
	require.Equal(t, domain.GuestUpgraded, guest.Status)
}
