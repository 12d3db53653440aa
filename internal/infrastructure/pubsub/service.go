package pubsub

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/golang-jwt/jwt"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/tdex-network/token-launcher/internal/core/ports"
	"github.com/tdex-network/token-launcher/pkg/circuitbreaker"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrSubscriptionNotFound ...
	ErrSubscriptionNotFound = errors.New("webhook not found")

	requestTimeout = 15 * time.Second
	tokenLifetime  = 5 * time.Minute
)

type service struct {
	store      *store
	httpClient *client

	lock     *sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewService returns a webhook pubsub whose subscriptions are persisted in a
// badger db in dbDir, in-memory if empty.
func NewService(dbDir string, logger badger.Logger) (ports.PubSub, error) {
	store, err := newStore(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening webhooks db: %w", err)
	}

	return &service{
		store:      store,
		httpClient: newHTTPClient(requestTimeout),
		lock:       &sync.Mutex{},
		breakers:   make(map[string]*gobreaker.CircuitBreaker),
	}, nil
}

func (s *service) Subscribe(topic, endpoint, secret string) (string, error) {
	sub, err := NewSubscription(topic, endpoint, secret)
	if err != nil {
		return "", err
	}
	if err := s.store.add(*sub); err != nil {
		return "", err
	}
	log.Debugf("added webhook %s for %s events", sub.ID, topic)
	return sub.ID, nil
}

func (s *service) Unsubscribe(_, id string) error {
	sub, err := s.store.get(id)
	if err != nil {
		return err
	}
	if err := s.store.remove(id); err != nil {
		return err
	}

	s.lock.Lock()
	delete(s.breakers, sub.Endpoint)
	s.lock.Unlock()
	return nil
}

func (s *service) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	subs, err := s.listSubscriptionsForTopic(topic)
	if err != nil {
		log.WithError(err).Warn("pubsub: failed to list webhooks")
		return nil
	}
	return subs.toPortable()
}

// Publish posts the message to every webhook subscribed for the topic or for
// any topic. Requests are made concurrently, the first error is returned
// once all of them completed.
func (s *service) Publish(topic, message string) error {
	subs, err := s.listSubscriptionsForTopic(topic)
	if err != nil {
		return err
	}

	eg := &errgroup.Group{}
	for i := range subs {
		sub := subs[i]
		eg.Go(func() error { return s.doRequest(sub, message) })
	}
	return eg.Wait()
}

func (s *service) Close() error {
	return s.store.close()
}

func (s *service) listSubscriptionsForTopic(topic string) (subscriptions, error) {
	switch topic {
	case ports.UnspecifiedTopic:
		return s.store.listForTopics()
	case ports.AnyTopic:
		return s.store.listForTopics(ports.AnyTopic)
	default:
		return s.store.listForTopics(topic, ports.AnyTopic)
	}
}

func (s *service) doRequest(sub Subscription, payload string) error {
	_, err := s.breaker(sub.Endpoint).Execute(func() (interface{}, error) {
		headers := map[string]string{
			"Content-Type": "application/json",
		}
		if sub.IsSecured() {
			now := time.Now()
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
				IssuedAt:  now.Unix(),
				ExpiresAt: now.Add(tokenLifetime).Unix(),
				Subject:   sub.Event,
			})
			tokenString, err := token.SignedString([]byte(sub.Secret))
			if err != nil {
				return nil, err
			}
			headers["Authorization"] = fmt.Sprintf("Bearer %s", tokenString)
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		status, resp, err := s.httpClient.post(ctx, sub.Endpoint, payload, headers)
		if err != nil {
			return nil, err
		}
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return nil, fmt.Errorf("webhook %s replied with %d: %s", sub.ID, status, resp)
		}
		return nil, nil
	})
	return err
}

func (s *service) breaker(endpoint string) *gobreaker.CircuitBreaker {
	s.lock.Lock()
	defer s.lock.Unlock()

	cb, ok := s.breakers[endpoint]
	if !ok {
		cb = circuitbreaker.NewCircuitBreaker(fmt.Sprintf("webhook %s", endpoint))
		s.breakers[endpoint] = cb
	}
	return cb
}
