package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/token-launcher/internal/core/domain"
)

func TestNewIntent(t *testing.T) {
	t.Parallel()

	intent, err := domain.NewIntent(
		domain.IntentAddGuest, "alice.token.owner.testnet",
		domain.AddGuestSteps()...,
	)
	require.NoError(t, err)
	require.NotEmpty(t, intent.ID)
	require.Equal(t, domain.IntentPending, intent.Status)
	require.Len(t, intent.Steps, 2)
	require.False(t, intent.IsPartial())

	next, ok := intent.NextStep()
	require.True(t, ok)
	require.Equal(t, domain.StepAddKey, next)
}

func TestFailingNewIntent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		kind          domain.IntentKind
		target        string
		steps         []string
		expectedError error
	}{
		{
			name:          "unknown_kind",
			kind:          "DO_SOMETHING",
			target:        "target",
			steps:         []string{"step"},
			expectedError: domain.ErrIntentUnknownKind,
		},
		{
			name:          "missing_target",
			kind:          domain.IntentLaunchToken,
			steps:         domain.LaunchTokenSteps(false),
			expectedError: domain.ErrIntentMissingTarget,
		},
		{
			name:          "missing_steps",
			kind:          domain.IntentRemoveGuest,
			target:        "target",
			expectedError: domain.ErrIntentMissingSteps,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			intent, err := domain.NewIntent(tt.kind, tt.target, tt.steps...)
			require.EqualError(t, err, tt.expectedError.Error())
			require.Nil(t, intent)
		})
	}
}

func TestIntentLifecycle(t *testing.T) {
	t.Parallel()

	intent, err := domain.NewIntent(
		domain.IntentLaunchToken, "tkn.owner.testnet",
		domain.LaunchTokenSteps(false)...,
	)
	require.NoError(t, err)

	err = intent.CompleteStep(domain.StepDeployAndInit, "")
	require.ErrorIs(t, err, domain.ErrIntentStepOutOfOrder)

	err = intent.CompleteStep(domain.StepCreateAccount, `{"tx":"a"}`)
	require.NoError(t, err)
	require.True(t, intent.IsPending())
	require.True(t, intent.IsPartial())
	require.Equal(t, []string{domain.StepCreateAccount}, intent.CompletedSteps())

	res, ok := intent.StepResult(domain.StepCreateAccount)
	require.True(t, ok)
	require.Equal(t, `{"tx":"a"}`, res)

	err = intent.CompleteStep(domain.StepDeployAndInit, `{"tx":"b"}`)
	require.NoError(t, err)
	require.True(t, intent.IsCompleted())
	require.False(t, intent.IsPartial())

	require.ErrorIs(t, intent.Fail("boom"), domain.ErrIntentNotPending)
	require.ErrorIs(t, intent.Resolve(), domain.ErrIntentNotResolvable)
}

func TestIntentFailAndResolve(t *testing.T) {
	t.Parallel()

	intent, err := domain.NewIntent(
		domain.IntentAddGuest, "bob.tkn.owner.testnet",
		domain.AddGuestSteps()...,
	)
	require.NoError(t, err)

	require.NoError(t, intent.CompleteStep(domain.StepAddKey, ""))
	require.NoError(t, intent.Fail("add_guest rejected"))
	require.True(t, intent.IsFailed())
	require.True(t, intent.IsPartial())
	require.Equal(t, "add_guest rejected", intent.Error)

	err = intent.CompleteStep(domain.StepAddGuest, "")
	require.ErrorIs(t, err, domain.ErrIntentNotPending)

	require.NoError(t, intent.Resolve())
	require.Equal(t, domain.IntentResolved, intent.Status)
	require.ErrorIs(t, intent.Resolve(), domain.ErrIntentNotResolvable)
}

func TestFactoryLaunchHasSingleStep(t *testing.T) {
	t.Parallel()

	intent, err := domain.NewIntent(
		domain.IntentLaunchToken, "tkn.owner.testnet",
		domain.LaunchTokenSteps(true)...,
	)
	require.NoError(t, err)
	require.NoError(t, intent.CompleteStep(domain.StepCreateToken, ""))
	require.True(t, intent.IsCompleted())
}
