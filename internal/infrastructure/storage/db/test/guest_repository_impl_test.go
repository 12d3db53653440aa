package db_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/token-launcher/internal/core/domain"
)

func TestGuestRepositoryImplementations(t *testing.T) {
	for _, repoManager := range createRepoManagers(t) {
		repo := repoManager.GuestRepository()

		t.Run(repoManager.name, func(t *testing.T) {
			t.Run("testAddGetGuest", func(t *testing.T) {
				testAddGetGuest(t, repo)
			})
			t.Run("testUpdateGuest", func(t *testing.T) {
				testUpdateGuest(t, repo)
			})
			t.Run("testListGuests", func(t *testing.T) {
				testListGuests(t, repo)
			})
		})
	}
}

func testAddGetGuest(t *testing.T, repo domain.GuestRepository) {
	tokenID := randomName() + "." + owner
	guest := makeRandomGuest(t, tokenID)

	_, err := repo.GetGuest(ctx, tokenID, guest.PublicKey)
	require.ErrorIs(t, err, domain.ErrGuestNotFound)

	require.NoError(t, repo.AddGuest(ctx, guest))
	err = repo.AddGuest(ctx, guest)
	require.ErrorIs(t, err, domain.ErrGuestAlreadyExists)

	storedGuest, err := repo.GetGuest(ctx, tokenID, guest.PublicKey)
	require.NoError(t, err)
	require.Equal(t, *guest, *storedGuest)

	// Same key registered for another token is a different guest.
	otherTokenID := randomName() + "." + owner
	_, err = repo.GetGuest(ctx, otherTokenID, guest.PublicKey)
	require.ErrorIs(t, err, domain.ErrGuestNotFound)
}

func testUpdateGuest(t *testing.T, repo domain.GuestRepository) {
	tokenID := randomName() + "." + owner
	guest := makeRandomGuest(t, tokenID)
	require.NoError(t, repo.AddGuest(ctx, guest))

	err := repo.UpdateGuest(
		ctx, tokenID, guest.PublicKey,
		func(g *domain.Guest) (*domain.Guest, error) {
			if err := g.MarkRemoved(); err != nil {
				return nil, err
			}
			return g, nil
		},
	)
	require.NoError(t, err)

	err = repo.UpdateGuest(
		ctx, tokenID, guest.PublicKey,
		func(g *domain.Guest) (*domain.Guest, error) {
			if err := g.MarkUpgraded(); err != nil {
				return nil, err
			}
			return g, nil
		},
	)
	require.ErrorIs(t, err, domain.ErrGuestNotActive)

	storedGuest, err := repo.GetGuest(ctx, tokenID, guest.PublicKey)
	require.NoError(t, err)
	require.Equal(t, domain.GuestRemoved, storedGuest.Status)

	err = repo.UpdateGuest(
		ctx, tokenID, randomPublicKey(),
		func(g *domain.Guest) (*domain.Guest, error) { return g, nil },
	)
	require.ErrorIs(t, err, domain.ErrGuestNotFound)
}

func testListGuests(t *testing.T, repo domain.GuestRepository) {
	tokenID := randomName() + "." + owner
	for i := 0; i < 4; i++ {
		guest := makeRandomGuest(t, tokenID)
		if i == 0 {
			require.NoError(t, guest.MarkUpgraded())
		}
		require.NoError(t, repo.AddGuest(ctx, guest))
	}
	require.NoError(t, repo.AddGuest(ctx, makeRandomGuest(t, randomName()+"."+owner)))

	guests, err := repo.ListGuests(ctx, tokenID, "")
	require.NoError(t, err)
	require.Len(t, guests, 4)

	guests, err = repo.ListGuests(ctx, tokenID, domain.GuestActive)
	require.NoError(t, err)
	require.Len(t, guests, 3)

	guests, err = repo.ListGuests(ctx, tokenID, domain.GuestUpgraded)
	require.NoError(t, err)
	require.Len(t, guests, 1)

	guests, err = repo.ListGuests(ctx, "", "")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(guests), 5)
}
