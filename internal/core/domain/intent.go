package domain

import (
	"time"

	"github.com/google/uuid"
)

type IntentKind string

const (
	IntentLaunchToken IntentKind = "LAUNCH_TOKEN"
	IntentAddGuest    IntentKind = "ADD_GUEST"
	IntentRemoveGuest IntentKind = "REMOVE_GUEST"
)

func (k IntentKind) IsValid() bool {
	switch k {
	case IntentLaunchToken, IntentAddGuest, IntentRemoveGuest:
		return true
	}
	return false
}

type IntentStatus string

const (
	IntentPending   IntentStatus = "PENDING"
	IntentCompleted IntentStatus = "COMPLETED"
	IntentFailed    IntentStatus = "FAILED"
	IntentResolved  IntentStatus = "RESOLVED"
)

// Names of the remote steps of every workflow.
const (
	StepCreateAccount = "create_account"
	StepDeployAndInit = "deploy_and_init"
	StepCreateToken   = "create_token"
	StepAddKey        = "add_key"
	StepAddGuest      = "add_guest"
	StepRemoveGuest   = "remove_guest"
	StepDeleteKey     = "delete_key"
)

// ErrInterrupted is the error recorded for intents found pending at startup.
const ErrInterrupted = "interrupted"

// LaunchTokenSteps returns the steps of a token launch. With a factory the
// launch is a single remote call.
func LaunchTokenSteps(withFactory bool) []string {
	if withFactory {
		return []string{StepCreateToken}
	}
	return []string{StepCreateAccount, StepDeployAndInit}
}

func AddGuestSteps() []string {
	return []string{StepAddKey, StepAddGuest}
}

func RemoveGuestSteps() []string {
	return []string{StepRemoveGuest, StepDeleteKey}
}

type IntentStep struct {
	Name        string
	Done        bool
	Result      string
	CompletedAt int64
}

// Intent records a multi-step remote workflow before its first step is
// attempted, so that partially applied workflows can always be found.
type Intent struct {
	ID        string
	Kind      IntentKind
	Target    string
	Steps     []IntentStep
	Status    IntentStatus
	Error     string
	CreatedAt int64
	UpdatedAt int64
}

func NewIntent(kind IntentKind, target string, steps ...string) (*Intent, error) {
	if !kind.IsValid() {
		return nil, ErrIntentUnknownKind
	}
	if len(target) <= 0 {
		return nil, ErrIntentMissingTarget
	}
	if len(steps) <= 0 {
		return nil, ErrIntentMissingSteps
	}

	intentSteps := make([]IntentStep, 0, len(steps))
	for _, s := range steps {
		intentSteps = append(intentSteps, IntentStep{Name: s})
	}
	now := time.Now().Unix()

	return &Intent{
		ID:        uuid.New().String(),
		Kind:      kind,
		Target:    target,
		Steps:     intentSteps,
		Status:    IntentPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (i *Intent) IsPending() bool {
	return i.Status == IntentPending
}

func (i *Intent) IsCompleted() bool {
	return i.Status == IntentCompleted
}

func (i *Intent) IsFailed() bool {
	return i.Status == IntentFailed
}

// NextStep returns the name of the first step not done yet.
func (i *Intent) NextStep() (string, bool) {
	for _, s := range i.Steps {
		if !s.Done {
			return s.Name, true
		}
	}
	return "", false
}

// CompleteStep marks the given step as done storing its result. Steps must
// be completed in order. Completing the last step completes the intent.
func (i *Intent) CompleteStep(name, result string) error {
	if !i.IsPending() {
		return ErrIntentNotPending
	}
	next, ok := i.NextStep()
	if !ok || next != name {
		return ErrIntentStepOutOfOrder
	}

	now := time.Now().Unix()
	for j := range i.Steps {
		if i.Steps[j].Name == name {
			i.Steps[j].Done = true
			i.Steps[j].Result = result
			i.Steps[j].CompletedAt = now
			break
		}
	}
	i.UpdatedAt = now

	if _, ok := i.NextStep(); !ok {
		i.Status = IntentCompleted
	}
	return nil
}

func (i *Intent) Fail(reason string) error {
	if !i.IsPending() {
		return ErrIntentNotPending
	}
	i.Status = IntentFailed
	i.Error = reason
	i.UpdatedAt = time.Now().Unix()
	return nil
}

// Resolve acknowledges that an operator took care of a failed or stale
// intent.
func (i *Intent) Resolve() error {
	if i.Status != IntentFailed && i.Status != IntentPending {
		return ErrIntentNotResolvable
	}
	i.Status = IntentResolved
	i.UpdatedAt = time.Now().Unix()
	return nil
}

// IsPartial returns whether some, but not all, steps have been applied.
func (i *Intent) IsPartial() bool {
	done := len(i.CompletedSteps())
	return done > 0 && done < len(i.Steps)
}

func (i *Intent) CompletedSteps() []string {
	steps := make([]string, 0, len(i.Steps))
	for _, s := range i.Steps {
		if s.Done {
			steps = append(steps, s.Name)
		}
	}
	return steps
}

// StepResult returns the result stored for the given step, if done.
func (i *Intent) StepResult(name string) (string, bool) {
	for _, s := range i.Steps {
		if s.Name == name && s.Done {
			return s.Result, true
		}
	}
	return "", false
}
