package db_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/token-launcher/internal/core/domain"
)

func TestIntentRepositoryImplementations(t *testing.T) {
	for _, repoManager := range createRepoManagers(t) {
		repo := repoManager.IntentRepository()

		t.Run(repoManager.name, func(t *testing.T) {
			t.Run("testAddGetIntent", func(t *testing.T) {
				testAddGetIntent(t, repo)
			})
			t.Run("testUpdateIntent", func(t *testing.T) {
				testUpdateIntent(t, repo)
			})
			t.Run("testListIntents", func(t *testing.T) {
				testListIntents(t, repo)
			})
		})
	}
}

func testAddGetIntent(t *testing.T, repo domain.IntentRepository) {
	intent, err := domain.NewIntent(
		domain.IntentLaunchToken, randomName()+"."+owner,
		domain.LaunchTokenSteps(false)...,
	)
	require.NoError(t, err)

	_, err = repo.GetIntent(ctx, intent.ID)
	require.ErrorIs(t, err, domain.ErrIntentNotFound)

	require.NoError(t, repo.AddIntent(ctx, intent))
	require.Error(t, repo.AddIntent(ctx, intent))

	storedIntent, err := repo.GetIntent(ctx, intent.ID)
	require.NoError(t, err)
	require.Equal(t, *intent, *storedIntent)
}

func testUpdateIntent(t *testing.T, repo domain.IntentRepository) {
	intent, err := domain.NewIntent(
		domain.IntentAddGuest, randomName()+"."+owner,
		domain.AddGuestSteps()...,
	)
	require.NoError(t, err)
	require.NoError(t, repo.AddIntent(ctx, intent))

	err = repo.UpdateIntent(
		ctx, intent.ID, func(i *domain.Intent) (*domain.Intent, error) {
			if err := i.CompleteStep(domain.StepAddKey, "result"); err != nil {
				return nil, err
			}
			return i, nil
		},
	)
	require.NoError(t, err)

	// A failing update must not change the stored intent.
	err = repo.UpdateIntent(
		ctx, intent.ID, func(i *domain.Intent) (*domain.Intent, error) {
			if err := i.CompleteStep(domain.StepAddKey, "again"); err != nil {
				return nil, err
			}
			return i, nil
		},
	)
	require.ErrorIs(t, err, domain.ErrIntentStepOutOfOrder)

	storedIntent, err := repo.GetIntent(ctx, intent.ID)
	require.NoError(t, err)
	require.True(t, storedIntent.IsPartial())
	res, ok := storedIntent.StepResult(domain.StepAddKey)
	require.True(t, ok)
	require.Equal(t, "result", res)

	err = repo.UpdateIntent(
		ctx, "unknown", func(i *domain.Intent) (*domain.Intent, error) {
			return i, nil
		},
	)
	require.ErrorIs(t, err, domain.ErrIntentNotFound)
}

func testListIntents(t *testing.T, repo domain.IntentRepository) {
	target := randomName() + "." + owner
	failed := 0
	for i := 0; i < 5; i++ {
		intent, err := domain.NewIntent(
			domain.IntentRemoveGuest, target, domain.RemoveGuestSteps()...,
		)
		require.NoError(t, err)
		if i%2 == 0 {
			require.NoError(t, intent.Fail("boom"))
			failed++
		}
		require.NoError(t, repo.AddIntent(ctx, intent))
	}

	intents, err := repo.ListIntentsForTarget(ctx, target)
	require.NoError(t, err)
	require.Len(t, intents, 5)

	intents, err = repo.ListIntentsForTarget(ctx, "unknown")
	require.NoError(t, err)
	require.Empty(t, intents)

	intents, err = repo.ListIntents(ctx, domain.IntentFailed, nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(intents), failed)
	for _, i := range intents {
		require.Equal(t, domain.IntentFailed, i.Status)
	}

	all, err := repo.ListIntents(ctx, "", nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(all), 5)

	page := domain.NewPage(1, 2)
	intents, err = repo.ListIntents(ctx, "", &page)
	require.NoError(t, err)
	require.Len(t, intents, 2)
	require.GreaterOrEqual(t, intents[0].CreatedAt, intents[1].CreatedAt)
}
