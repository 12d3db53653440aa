package intent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/token-launcher/internal/core/application/intent"
	"github.com/tdex-network/token-launcher/internal/core/application/pubsub"
	"github.com/tdex-network/token-launcher/internal/core/domain"
	"github.com/tdex-network/token-launcher/internal/core/ports"
	"github.com/tdex-network/token-launcher/internal/infrastructure/storage/db/inmemory"
)

var (
	ctx    = context.Background()
	target = "bob.tkn.owner.testnet"
)

type recorder struct {
	topics []string
}

func (r *recorder) Publish(topic, _ string) error {
	r.topics = append(r.topics, topic)
	return nil
}

func newService(t *testing.T) (*intent.Service, ports.RepoManager, *recorder) {
	repoManager := inmemory.NewRepoManager()
	rec := &recorder{}
	svc, err := intent.NewService(repoManager, pubsub.NewService(nil, rec))
	require.NoError(t, err)
	return svc, repoManager, rec
}

func okStep(name, txHash string, calls *[]string) intent.Step {
	return intent.Step{
		Name: name,
		Run: func(context.Context) (*ports.Outcome, error) {
			*calls = append(*calls, name)
			return &ports.Outcome{TransactionHash: txHash}, nil
		},
	}
}

func failingStep(name string, err error, calls *[]string) intent.Step {
	return intent.Step{
		Name: name,
		Run: func(context.Context) (*ports.Outcome, error) {
			*calls = append(*calls, name)
			return nil, err
		},
	}
}

func TestExecute(t *testing.T) {
	svc, repoManager, rec := newService(t)
	calls := make([]string, 0)

	i, outcomes, err := svc.Execute(
		ctx, domain.IntentAddGuest, target,
		okStep(domain.StepAddKey, "tx1", &calls),
		okStep(domain.StepAddGuest, "tx2", &calls),
	)
	require.NoError(t, err)
	require.Equal(t, []string{domain.StepAddKey, domain.StepAddGuest}, calls)
	require.Len(t, outcomes, 2)
	require.Equal(t, "tx2", outcomes[1].TransactionHash)
	require.True(t, i.IsCompleted())
	require.Empty(t, rec.topics)

	stored, err := repoManager.IntentRepository().GetIntent(ctx, i.ID)
	require.NoError(t, err)
	require.True(t, stored.IsCompleted())
	res, ok := stored.StepResult(domain.StepAddKey)
	require.True(t, ok)
	require.Contains(t, res, "tx1")
}

func TestSteps(t *testing.T) {
	run := func(txHash string) intent.RunFunc {
		return func(context.Context) (*ports.Outcome, error) {
			return &ports.Outcome{TransactionHash: txHash}, nil
		}
	}

	steps := intent.Steps(domain.AddGuestSteps(), run("tx1"), run("tx2"))
	require.Len(t, steps, 2)
	require.Equal(t, domain.StepAddKey, steps[0].Name)
	require.Equal(t, domain.StepAddGuest, steps[1].Name)
	outcome, err := steps[1].Run(ctx)
	require.NoError(t, err)
	require.Equal(t, "tx2", outcome.TransactionHash)

	require.Panics(t, func() {
		intent.Steps(domain.RemoveGuestSteps(), run("tx1"))
	})
}

func TestExecuteStopsAtFirstFailure(t *testing.T) {
	svc, repoManager, rec := newService(t)
	calls := make([]string, 0)
	stepErr := errors.New("guest account already added")

	i, outcomes, err := svc.Execute(
		ctx, domain.IntentAddGuest, target,
		okStep(domain.StepAddKey, "tx1", &calls),
		failingStep(domain.StepAddGuest, stepErr, &calls),
	)
	require.Error(t, err)
	require.ErrorIs(t, err, stepErr)
	require.Equal(t, stepErr.Error(), err.Error())

	var wfErr *intent.WorkflowError
	require.ErrorAs(t, err, &wfErr)
	require.Equal(t, domain.StepAddGuest, wfErr.Step)
	require.Equal(t, i.ID, wfErr.Intent.ID)

	require.Len(t, outcomes, 1)
	require.True(t, i.IsFailed())
	require.True(t, i.IsPartial())
	require.Equal(t, []string{pubsub.EventIntentFailed}, rec.topics)

	stored, err := repoManager.IntentRepository().GetIntent(ctx, i.ID)
	require.NoError(t, err)
	require.True(t, stored.IsFailed())
	require.Equal(t, []string{domain.StepAddKey}, stored.CompletedSteps())
}

func TestExecuteFailingFirstStep(t *testing.T) {
	svc, _, _ := newService(t)
	calls := make([]string, 0)

	i, outcomes, err := svc.Execute(
		ctx, domain.IntentLaunchToken, "tkn.owner.testnet",
		failingStep(domain.StepCreateAccount, errors.New("account already exists"), &calls),
		okStep(domain.StepDeployAndInit, "tx", &calls),
	)
	require.Error(t, err)
	require.Equal(t, []string{domain.StepCreateAccount}, calls)
	require.Empty(t, outcomes)
	require.True(t, i.IsFailed())
	require.False(t, i.IsPartial())
}

func TestWorkflowErrorClass(t *testing.T) {
	err := &intent.WorkflowError{
		Err: errors.New("ledger says no"), Class: domain.ErrTokenAlreadyExists,
	}
	require.ErrorIs(t, err, domain.ErrTokenAlreadyExists)
	require.NotErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestRecoverPendingAndResolve(t *testing.T) {
	svc, repoManager, rec := newService(t)
	repo := repoManager.IntentRepository()

	pending, err := domain.NewIntent(
		domain.IntentAddGuest, target, domain.AddGuestSteps()...,
	)
	require.NoError(t, err)
	require.NoError(t, pending.CompleteStep(domain.StepAddKey, ""))
	require.NoError(t, repo.AddIntent(ctx, pending))

	completed, err := domain.NewIntent(
		domain.IntentRemoveGuest, target, domain.StepRemoveGuest,
	)
	require.NoError(t, err)
	require.NoError(t, completed.CompleteStep(domain.StepRemoveGuest, ""))
	require.NoError(t, repo.AddIntent(ctx, completed))

	count, err := svc.RecoverPending(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Len(t, rec.topics, 1)

	recovered, err := svc.GetIntent(ctx, pending.ID)
	require.NoError(t, err)
	require.True(t, recovered.IsFailed())
	require.Equal(t, domain.ErrInterrupted, recovered.Error)

	failed, err := svc.ListIntents(ctx, domain.IntentFailed, nil)
	require.NoError(t, err)
	require.Len(t, failed, 1)

	resolved, err := svc.ResolveIntent(ctx, pending.ID)
	require.NoError(t, err)
	require.Equal(t, domain.IntentResolved, resolved.Status)

	_, err = svc.ResolveIntent(ctx, completed.ID)
	require.ErrorIs(t, err, domain.ErrIntentNotResolvable)

	_, err = svc.ResolveIntent(ctx, "unknown")
	require.ErrorIs(t, err, domain.ErrIntentNotFound)

	intents, err := svc.ListIntentsForTarget(ctx, target)
	require.NoError(t, err)
	require.Len(t, intents, 2)
}
