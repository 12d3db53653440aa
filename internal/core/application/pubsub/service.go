package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/token-launcher/internal/core/domain"
	"github.com/tdex-network/token-launcher/internal/core/ports"
)

const (
	EventTokenLaunched = "TOKEN_LAUNCHED"
	EventGuestAdded    = "GUEST_ADDED"
	EventGuestRemoved  = "GUEST_REMOVED"
	EventIntentFailed  = "INTENT_FAILED"
)

var (
	// ErrWebhookManagerNotInitialized is returned when attempting to manage
	// webhooks without having initialized the manager.
	ErrWebhookManagerNotInitialized = errors.New("webhook manager is not initialized")
	// ErrInvalidEvent ...
	ErrInvalidEvent = errors.New("invalid webhook event type")
	// ErrMissingEndpoint ...
	ErrMissingEndpoint = errors.New("missing webhook endpoint")
)

func IsValidEvent(event string) bool {
	switch event {
	case EventTokenLaunched, EventGuestAdded, EventGuestRemoved,
		EventIntentFailed, ports.AnyTopic:
		return true
	}
	return false
}

type WebhookInfo struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	Endpoint  string `json:"endpoint"`
	IsSecured bool   `json:"isSecured"`
}

// Service publishes domain events to webhooks and to any other registered
// publisher, like the websocket stream. Publishing never fails from the
// caller perspective, errors are only logged.
type Service struct {
	pubsub     ports.PubSub
	publishers []ports.Publisher
}

// NewService returns a pubsub service. A nil pubsub disables webhooks.
func NewService(pubsub ports.PubSub, publishers ...ports.Publisher) *Service {
	return &Service{pubsub, publishers}
}

func (s *Service) AddWebhook(
	_ context.Context, event, endpoint, secret string,
) (string, error) {
	if s.pubsub == nil {
		return "", ErrWebhookManagerNotInitialized
	}
	if !IsValidEvent(event) {
		return "", ErrInvalidEvent
	}
	if len(endpoint) <= 0 {
		return "", ErrMissingEndpoint
	}
	return s.pubsub.Subscribe(event, endpoint, secret)
}

func (s *Service) RemoveWebhook(_ context.Context, id string) error {
	if s.pubsub == nil {
		return ErrWebhookManagerNotInitialized
	}
	return s.pubsub.Unsubscribe(ports.UnspecifiedTopic, id)
}

// ListWebhooks returns the webhooks for the given event, all of them if the
// event is unspecified.
func (s *Service) ListWebhooks(
	_ context.Context, event string,
) ([]WebhookInfo, error) {
	if s.pubsub == nil {
		return nil, ErrWebhookManagerNotInitialized
	}
	if event != ports.UnspecifiedTopic && !IsValidEvent(event) {
		return nil, ErrInvalidEvent
	}

	subs := s.pubsub.ListSubscriptionsForTopic(event)
	webhooks := make([]WebhookInfo, 0, len(subs))
	for _, sub := range subs {
		webhooks = append(webhooks, WebhookInfo{
			ID:        sub.Id(),
			Event:     sub.Topic(),
			Endpoint:  sub.NotifyAt(),
			IsSecured: sub.IsSecured(),
		})
	}
	return webhooks, nil
}

func (s *Service) PublishTokenLaunchedEvent(token domain.Token) {
	s.publish(EventTokenLaunched, map[string]interface{}{
		"token": getTokenPayload(token),
	})
}

func (s *Service) PublishGuestAddedEvent(guest domain.Guest) {
	s.publish(EventGuestAdded, map[string]interface{}{
		"guest": getGuestPayload(guest),
	})
}

func (s *Service) PublishGuestRemovedEvent(guest domain.Guest) {
	s.publish(EventGuestRemoved, map[string]interface{}{
		"guest": getGuestPayload(guest),
	})
}

func (s *Service) PublishIntentFailedEvent(intent domain.Intent) {
	s.publish(EventIntentFailed, map[string]interface{}{
		"intent": getIntentPayload(intent),
	})
}

func (s *Service) Close() {
	if s.pubsub == nil {
		return
	}
	if err := s.pubsub.Close(); err != nil {
		log.WithError(err).Warn("pubsub: error while closing store")
	}
}

func (s *Service) publish(event string, payload map[string]interface{}) {
	now := time.Now()
	payload["event"] = event
	payload["timestamp"] = now.Unix()
	payload["date"] = now.Format(time.RFC3339)
	message, _ := json.Marshal(payload)

	publishers := s.publishers
	if s.pubsub != nil {
		publishers = append([]ports.Publisher{s.pubsub}, publishers...)
	}
	for _, p := range publishers {
		if err := p.Publish(event, string(message)); err != nil {
			log.WithError(err).Warn(
				fmt.Sprintf("pubsub: failed to publish %s event", event),
			)
		}
	}
}
