package intent

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/token-launcher/internal/core/application/pubsub"
	"github.com/tdex-network/token-launcher/internal/core/domain"
	"github.com/tdex-network/token-launcher/internal/core/ports"
)

// RunFunc performs the remote call of a step.
type RunFunc func(ctx context.Context) (*ports.Outcome, error)

// Step is a single remote call of a workflow.
type Step struct {
	Name string
	Run  RunFunc
}

// Steps pairs the step names of a workflow with the funcs running them, in
// order. It panics if they don't match one to one.
func Steps(names []string, runs ...RunFunc) []Step {
	if len(names) != len(runs) {
		panic(fmt.Sprintf(
			"intent: %d step names for %d run funcs", len(names), len(runs),
		))
	}
	steps := make([]Step, 0, len(names))
	for i, name := range names {
		steps = append(steps, Step{Name: name, Run: runs[i]})
	}
	return steps
}

// WorkflowError is returned when a step of a workflow fails. It carries the
// failed intent and unwraps to the step error, left untouched.
type WorkflowError struct {
	Intent domain.Intent
	Step   string
	Err    error
	// Class optionally classifies the failure, see Is.
	Class error
}

func (e *WorkflowError) Error() string {
	return e.Err.Error()
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

func (e *WorkflowError) Is(target error) bool {
	return e.Class != nil && e.Class == target
}

type Service struct {
	repoManager ports.RepoManager
	pubsub      *pubsub.Service
}

func NewService(
	repoManager ports.RepoManager, pubsubSvc *pubsub.Service,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if pubsubSvc == nil {
		return nil, fmt.Errorf("missing pubsub service")
	}
	return &Service{repoManager, pubsubSvc}, nil
}

// Execute records an intent for the given steps, then runs them in order.
// Every landed step is persisted before the next one starts. The first
// failure stops the workflow, nothing is rolled back.
func (s *Service) Execute(
	ctx context.Context, kind domain.IntentKind, target string, steps ...Step,
) (*domain.Intent, []*ports.Outcome, error) {
	names := make([]string, 0, len(steps))
	for _, step := range steps {
		names = append(names, step.Name)
	}

	intent, err := domain.NewIntent(kind, target, names...)
	if err != nil {
		return nil, nil, err
	}
	repo := s.repoManager.IntentRepository()
	if err := repo.AddIntent(ctx, intent); err != nil {
		return nil, nil, fmt.Errorf("failed to persist intent: %w", err)
	}
	log.Debugf("intent %s: %s %s started", intent.ID, kind, target)

	outcomes := make([]*ports.Outcome, 0, len(steps))
	for _, step := range steps {
		outcome, err := step.Run(ctx)
		if err != nil {
			failed := s.fail(ctx, intent, step.Name, err)
			return failed, outcomes, &WorkflowError{
				Intent: *failed, Step: step.Name, Err: err,
			}
		}
		outcomes = append(outcomes, outcome)

		result := ""
		if outcome != nil {
			buf, _ := json.Marshal(outcome)
			result = string(buf)
		}
		if err := intent.CompleteStep(step.Name, result); err != nil {
			return intent, outcomes, err
		}
		if err := repo.UpdateIntent(
			ctx, intent.ID, func(_ *domain.Intent) (*domain.Intent, error) {
				return intent, nil
			},
		); err != nil {
			log.WithError(err).Errorf(
				"intent %s: step %s landed but could not be persisted",
				intent.ID, step.Name,
			)
			return intent, outcomes, fmt.Errorf("failed to persist intent: %w", err)
		}
		log.Debugf("intent %s: step %s completed", intent.ID, step.Name)
	}

	return intent, outcomes, nil
}

func (s *Service) fail(
	ctx context.Context, intent *domain.Intent, step string, stepErr error,
) *domain.Intent {
	reason := fmt.Sprintf("%s: %s", step, stepErr)
	if err := intent.Fail(reason); err != nil {
		log.WithError(err).Warnf("intent %s: failed to mark as failed", intent.ID)
		return intent
	}

	if err := s.repoManager.IntentRepository().UpdateIntent(
		ctx, intent.ID, func(_ *domain.Intent) (*domain.Intent, error) {
			return intent, nil
		},
	); err != nil {
		log.WithError(err).Errorf("intent %s: failed to persist failure", intent.ID)
	}

	entry := log.WithError(stepErr).WithField("intent", intent.ID)
	if intent.IsPartial() {
		entry.Warnf(
			"%s %s partially applied, completed steps: %v",
			intent.Kind, intent.Target, intent.CompletedSteps(),
		)
	} else {
		entry.Warnf("%s %s failed at step %s", intent.Kind, intent.Target, step)
	}

	s.pubsub.PublishIntentFailedEvent(*intent)
	return intent
}

// RecoverPending marks as failed all intents left pending by a previous run.
// It returns the number of recovered intents.
func (s *Service) RecoverPending(ctx context.Context) (int, error) {
	repo := s.repoManager.IntentRepository()
	intents, err := repo.ListIntents(ctx, domain.IntentPending, nil)
	if err != nil {
		return 0, err
	}

	for _, i := range intents {
		if err := repo.UpdateIntent(
			ctx, i.ID, func(intent *domain.Intent) (*domain.Intent, error) {
				if err := intent.Fail(domain.ErrInterrupted); err != nil {
					return nil, err
				}
				return intent, nil
			},
		); err != nil {
			return 0, fmt.Errorf("failed to recover intent %s: %w", i.ID, err)
		}

		log.WithField("intent", i.ID).Warnf(
			"%s %s interrupted, completed steps: %v",
			i.Kind, i.Target, i.CompletedSteps(),
		)
		i.Status = domain.IntentFailed
		i.Error = domain.ErrInterrupted
		s.pubsub.PublishIntentFailedEvent(i)
	}
	return len(intents), nil
}

func (s *Service) GetIntent(ctx context.Context, id string) (*domain.Intent, error) {
	return s.repoManager.IntentRepository().GetIntent(ctx, id)
}

func (s *Service) ListIntents(
	ctx context.Context, status domain.IntentStatus, page *domain.Page,
) ([]domain.Intent, error) {
	return s.repoManager.IntentRepository().ListIntents(ctx, status, page)
}

func (s *Service) ListIntentsForTarget(
	ctx context.Context, target string,
) ([]domain.Intent, error) {
	return s.repoManager.IntentRepository().ListIntentsForTarget(ctx, target)
}

// ResolveIntent acknowledges that the effects of a failed or stale intent
// have been taken care of.
func (s *Service) ResolveIntent(
	ctx context.Context, id string,
) (*domain.Intent, error) {
	var resolved *domain.Intent
	if err := s.repoManager.IntentRepository().UpdateIntent(
		ctx, id, func(intent *domain.Intent) (*domain.Intent, error) {
			if err := intent.Resolve(); err != nil {
				return nil, err
			}
			resolved = intent
			return intent, nil
		},
	); err != nil {
		return nil, err
	}

	log.Infof("intent %s resolved", id)
	return resolved, nil
}
