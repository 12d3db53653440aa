package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/token-launcher/internal/core/domain"
	dbbadger "github.com/tdex-network/token-launcher/internal/infrastructure/storage/db/badger"
)

func TestListAndResolve(t *testing.T) {
	repo, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	intentRepo := repo.IntentRepository()

	failed, err := domain.NewIntent(
		domain.IntentAddGuest, "alice.tkn.owner.testnet",
		domain.AddGuestSteps()...,
	)
	require.NoError(t, err)
	require.NoError(t, failed.CompleteStep(domain.StepAddKey, ""))
	require.NoError(t, failed.Fail("add_guest rejected"))
	require.NoError(t, intentRepo.AddIntent(ctx, failed))

	done, err := domain.NewIntent(
		domain.IntentLaunchToken, "tkn.owner.testnet",
		domain.LaunchTokenSteps(true)...,
	)
	require.NoError(t, err)
	require.NoError(t, done.CompleteStep(domain.StepCreateToken, ""))
	require.NoError(t, intentRepo.AddIntent(ctx, done))

	intents, err := listIntents(ctx, intentRepo, "failed", "")
	require.NoError(t, err)
	require.Len(t, intents, 1)
	require.Contains(t, formatIntent(intents[0]), "error: add_guest rejected")

	intents, err = listIntents(ctx, intentRepo, "", "tkn.owner.testnet")
	require.NoError(t, err)
	require.Len(t, intents, 1)

	require.NoError(t, resolveIntent(ctx, intentRepo, failed.ID))
	require.Error(t, resolveIntent(ctx, intentRepo, done.ID))

	intent, err := intentRepo.GetIntent(ctx, failed.ID)
	require.NoError(t, err)
	require.Equal(t, domain.IntentResolved, intent.Status)
}
