package pubsub_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/token-launcher/internal/core/ports"
	"github.com/tdex-network/token-launcher/internal/infrastructure/pubsub"
)

const testMessage = `{"event":"TOKEN_LAUNCHED","token":{"id":"tkn.owner.testnet"}}`

type received struct {
	path          string
	body          string
	authorization string
}

type testServer struct {
	*httptest.Server
	lock     sync.Mutex
	requests []received
}

func newTestServer(t *testing.T) *testServer {
	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			buf, _ := io.ReadAll(r.Body)
			ts.lock.Lock()
			ts.requests = append(ts.requests, received{
				r.URL.Path, string(buf), r.Header.Get("Authorization"),
			})
			ts.lock.Unlock()
			if r.URL.Path == "/failing" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
		},
	))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) requestsFor(path string) []received {
	ts.lock.Lock()
	defer ts.lock.Unlock()
	reqs := make([]received, 0)
	for _, r := range ts.requests {
		if r.path == path {
			reqs = append(reqs, r)
		}
	}
	return reqs
}

func newTestService(t *testing.T) ports.PubSub {
	svc, err := pubsub.NewService("", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		//nolint
		svc.Close()
	})
	return svc
}

func TestSubscriptions(t *testing.T) {
	svc := newTestService(t)
	server := newTestServer(t)

	launchedID, err := svc.Subscribe("TOKEN_LAUNCHED", server.URL+"/launched", "")
	require.NoError(t, err)
	_, err = svc.Subscribe("GUEST_ADDED", server.URL+"/guests", "secret")
	require.NoError(t, err)
	_, err = svc.Subscribe(ports.AnyTopic, server.URL+"/all", "")
	require.NoError(t, err)

	require.Len(t, svc.ListSubscriptionsForTopic(ports.UnspecifiedTopic), 3)
	require.Len(t, svc.ListSubscriptionsForTopic("TOKEN_LAUNCHED"), 2)
	require.Len(t, svc.ListSubscriptionsForTopic(ports.AnyTopic), 1)

	secured := svc.ListSubscriptionsForTopic("GUEST_ADDED")
	require.Len(t, secured, 2)
	for _, sub := range secured {
		if sub.Topic() == "GUEST_ADDED" {
			require.True(t, sub.IsSecured())
			require.Equal(t, server.URL+"/guests", sub.NotifyAt())
		}
	}

	require.NoError(t, svc.Unsubscribe("", launchedID))
	require.Len(t, svc.ListSubscriptionsForTopic("TOKEN_LAUNCHED"), 1)
	require.ErrorIs(t, svc.Unsubscribe("", launchedID), pubsub.ErrSubscriptionNotFound)
}

func TestInvalidSubscription(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Subscribe("", "http://localhost:8000", "")
	require.Error(t, err)
	_, err = svc.Subscribe("TOKEN_LAUNCHED", "localhost", "")
	require.Error(t, err)
	_, err = svc.Subscribe("TOKEN_LAUNCHED", "ftp://localhost/hook", "")
	require.Error(t, err)
}

func TestPublish(t *testing.T) {
	svc := newTestService(t)
	server := newTestServer(t)
	secret := "supersecret"

	_, err := svc.Subscribe("TOKEN_LAUNCHED", server.URL+"/launched", secret)
	require.NoError(t, err)
	_, err = svc.Subscribe(ports.AnyTopic, server.URL+"/all", "")
	require.NoError(t, err)
	_, err = svc.Subscribe("GUEST_ADDED", server.URL+"/guests", "")
	require.NoError(t, err)

	require.NoError(t, svc.Publish("TOKEN_LAUNCHED", testMessage))

	launched := server.requestsFor("/launched")
	require.Len(t, launched, 1)
	require.Equal(t, testMessage, launched[0].body)
	require.True(t, strings.HasPrefix(launched[0].authorization, "Bearer "))

	tokenString := strings.TrimPrefix(launched[0].authorization, "Bearer ")
	token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	all := server.requestsFor("/all")
	require.Len(t, all, 1)
	require.Empty(t, all[0].authorization)
	require.Empty(t, server.requestsFor("/guests"))
}

func TestPublishFailingWebhook(t *testing.T) {
	svc := newTestService(t)
	server := newTestServer(t)

	_, err := svc.Subscribe("INTENT_FAILED", server.URL+"/failing", "")
	require.NoError(t, err)
	_, err = svc.Subscribe("INTENT_FAILED", server.URL+"/ok", "")
	require.NoError(t, err)

	err = svc.Publish("INTENT_FAILED", testMessage)
	require.Error(t, err)
	require.Len(t, server.requestsFor("/ok"), 1)
}
