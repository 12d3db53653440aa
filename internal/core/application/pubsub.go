package application

import (
	"context"

	"github.com/tdex-network/token-launcher/internal/core/application/pubsub"
	"github.com/tdex-network/token-launcher/internal/core/ports"
)

type WebhookInfo = pubsub.WebhookInfo

// PubSubService manages the webhooks notified of domain events.
type PubSubService interface {
	AddWebhook(ctx context.Context, event, endpoint, secret string) (string, error)
	RemoveWebhook(ctx context.Context, id string) error
	ListWebhooks(ctx context.Context, event string) ([]WebhookInfo, error)
	Close()
}

// NewPubSubService returns a pubsub service publishing events to the given
// webhook manager and publishers. Webhooks are disabled if pubsub is nil.
func NewPubSubService(
	pubsubSvc ports.PubSub, publishers ...ports.Publisher,
) PubSubService {
	return pubsub.NewService(pubsubSvc, publishers...)
}
