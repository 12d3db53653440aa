package application

import (
	"context"

	"github.com/tdex-network/token-launcher/internal/core/application/intent"
	"github.com/tdex-network/token-launcher/internal/core/application/pubsub"
	"github.com/tdex-network/token-launcher/internal/core/domain"
	"github.com/tdex-network/token-launcher/internal/core/ports"
)

// WorkflowError is the error of a multi-step workflow interrupted by a
// failed remote call.
type WorkflowError = intent.WorkflowError

type IntentService interface {
	// RecoverPending flags as failed the intents left pending by a previous
	// run of the daemon.
	RecoverPending(ctx context.Context) (int, error)
	GetIntent(ctx context.Context, id string) (*domain.Intent, error)
	ListIntents(
		ctx context.Context, status domain.IntentStatus, page *domain.Page,
	) ([]domain.Intent, error)
	ListIntentsForTarget(
		ctx context.Context, target string,
	) ([]domain.Intent, error)
	ResolveIntent(ctx context.Context, id string) (*domain.Intent, error)
}

func NewIntentService(
	repoManager ports.RepoManager, pubsubSvc PubSubService,
) (IntentService, error) {
	p, _ := pubsubSvc.(*pubsub.Service)
	return intent.NewService(repoManager, p)
}
