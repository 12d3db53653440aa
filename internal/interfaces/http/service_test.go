package httpinterface

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/token-launcher/internal/core/application"
	"github.com/tdex-network/token-launcher/internal/core/domain"
	"github.com/tdex-network/token-launcher/internal/core/ports"
	"github.com/tdex-network/token-launcher/internal/infrastructure/pubsub/stream"
	"github.com/tdex-network/token-launcher/internal/interfaces/http/permissions"
	"github.com/tdex-network/token-launcher/pkg/macaroons"
	"github.com/tdex-network/token-launcher/pkg/near"
)

const (
	tokenID   = "tkn.owner.testnet"
	publicKey = "ed25519:8hSHprDq2StXwMtNd43wDTXQYsjXcD4MJTXQYsjXcc"
)

type testService struct {
	*service
	launcherSvc *mockLauncherService
	guestSvc    *mockGuestService
	intentSvc   *mockIntentService
	pubsubSvc   *mockPubSubService
}

func newTestService(t *testing.T, noMacaroons bool) *testService {
	return newTestServiceWithHub(t, noMacaroons, nil)
}

func newTestServiceWithHub(
	t *testing.T, noMacaroons bool, hub *stream.Hub,
) *testService {
	ts := &testService{
		launcherSvc: &mockLauncherService{},
		guestSvc:    &mockGuestService{},
		intentSvc:   &mockIntentService{},
		pubsubSvc:   &mockPubSubService{},
	}
	reg := prometheus.NewRegistry()

	svc, err := NewService(ServiceOpts{
		NoMacaroons: noMacaroons,
		Address:     ":0",
		LauncherSvc: ts.launcherSvc,
		GuestSvc:    ts.guestSvc,
		IntentSvc:   ts.intentSvc,
		PubSubSvc:   ts.pubsubSvc,
		EventsHub:   hub,
		Registerer:  reg,
		Gatherer:    reg,
	})
	require.NoError(t, err)
	ts.service = svc.(*service)
	t.Cleanup(ts.Stop)
	return ts
}

func (ts *testService) do(
	t *testing.T, method, path string, body interface{}, macBytes []byte,
) (int, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if macBytes != nil {
		macaroons.SetHeader(req, macBytes)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	resp := map[string]interface{}{}
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec.Code, resp
}

func TestViews(t *testing.T) {
	ts := newTestService(t, false)
	ts.launcherSvc.On("BalanceOf", mock.Anything, tokenID, "alice.testnet").
		Return("10", nil)
	ts.launcherSvc.On("TotalSupply", mock.Anything, tokenID).
		Return("1000", nil)
	ts.guestSvc.On("GetGuest", mock.Anything, tokenID, publicKey).
		Return("alice."+tokenID, nil)

	status, resp := ts.do(t, http.MethodPost, "/balance-of", map[string]string{
		"tokenId": tokenID, "accountId": "alice.testnet",
	}, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, resp["success"])
	require.Equal(t, "10", resp["balance"])

	status, resp = ts.do(t, http.MethodPost, "/total-supply", map[string]string{
		"tokenId": tokenID,
	}, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "1000", resp["supply"])

	status, resp = ts.do(t, http.MethodPost, "/get-guest", map[string]string{
		"tokenId": tokenID, "public_key": publicKey,
	}, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "alice."+tokenID, resp["account_id"])
}

func TestMacaroonAuth(t *testing.T) {
	ts := newTestService(t, false)
	ctx := context.Background()

	adminMac, err := ts.macaroonSvc.NewMacaroon(ctx, permissions.AdminPermissions()...)
	require.NoError(t, err)
	readonlyMac, err := ts.macaroonSvc.NewMacaroon(ctx, permissions.ReadOnlyPermissions()...)
	require.NoError(t, err)

	ts.launcherSvc.On("Mint", mock.Anything, tokenID, "5").
		Return(&ports.Outcome{TransactionHash: "hash"}, nil)
	ts.launcherSvc.On("ListTokens", mock.Anything).Return([]domain.Token{}, nil)

	body := map[string]string{"tokenId": tokenID, "amount": "5"}

	status, resp := ts.do(t, http.MethodPost, "/mint", body, nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, false, resp["success"])

	status, _ = ts.do(t, http.MethodPost, "/mint", body, readonlyMac)
	require.Equal(t, http.StatusUnauthorized, status)

	status, resp = ts.do(t, http.MethodPost, "/mint", body, adminMac)
	require.Equal(t, http.StatusOK, status)
	result := resp["result"].(map[string]interface{})
	require.Equal(t, "hash", result["transaction_hash"])

	status, _ = ts.do(t, http.MethodGet, "/tokens", nil, readonlyMac)
	require.Equal(t, http.StatusOK, status)

	// A macaroon baked by another service is rejected.
	other, err := macaroons.NewService("", Location, nil)
	require.NoError(t, err)
	defer other.Close()
	foreignMac, err := other.NewMacaroon(ctx, permissions.AdminPermissions()...)
	require.NoError(t, err)
	status, _ = ts.do(t, http.MethodGet, "/tokens", nil, foreignMac)
	require.Equal(t, http.StatusUnauthorized, status)

	ts.launcherSvc.AssertNumberOfCalls(t, "Mint", 1)
}

func TestMacaroonFromQuery(t *testing.T) {
	ts := newTestService(t, false)
	readonlyMac, err := ts.macaroonSvc.NewMacaroon(
		context.Background(), permissions.ReadOnlyPermissions()...,
	)
	require.NoError(t, err)
	ts.pubsubSvc.On("ListWebhooks", mock.Anything, "").Return(nil, nil)

	status, resp := ts.do(
		t, http.MethodGet, "/webhooks?macaroon="+hex.EncodeToString(readonlyMac),
		nil, nil,
	)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, resp["webhooks"])
}

func TestLaunchTokenWorkflowError(t *testing.T) {
	ts := newTestService(t, true)

	intent, err := domain.NewIntent(
		domain.IntentLaunchToken, tokenID, domain.LaunchTokenSteps(false)...,
	)
	require.NoError(t, err)
	require.NoError(t, intent.CompleteStep(domain.StepCreateAccount, ""))

	raw := json.RawMessage(`{"ActionError":{"index":0,"kind":{"FunctionCallError":{}}}}`)
	wfErr := &application.WorkflowError{
		Intent: *intent,
		Step:   domain.StepDeployAndInit,
		Err: &near.TxError{
			Kind: "FunctionCallError", Message: "Smart contract panicked", Raw: raw,
		},
	}
	req := ports.LaunchTokenRequest{
		Name: "tkn", Symbol: "TKN", TotalSupply: "1000",
	}
	ts.launcherSvc.On("LaunchToken", mock.Anything, req).Return(nil, wfErr)

	status, resp := ts.do(t, http.MethodPost, "/launch-token", map[string]interface{}{
		"name": "tkn", "symbol": "TKN", "totalSupply": "1000",
	}, nil)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, false, resp["success"])
	require.Equal(t, "FunctionCallError: Smart contract panicked", resp["error"])
	require.Equal(t, intent.ID, resp["intent"])
	require.Contains(t, resp["e"], "ActionError")
}

func TestLaunchToken(t *testing.T) {
	ts := newTestService(t, true)

	token, err := domain.NewToken("tkn", "TKN", "1000", true, "owner.testnet")
	require.NoError(t, err)
	intent, err := domain.NewIntent(
		domain.IntentLaunchToken, token.ID, domain.LaunchTokenSteps(true)...,
	)
	require.NoError(t, err)
	require.NoError(t, intent.CompleteStep(domain.StepCreateToken, `{"transaction_hash":"h"}`))

	ts.launcherSvc.On("LaunchToken", mock.Anything, mock.Anything).Return(
		&ports.LaunchTokenResult{Token: *token, Intent: *intent}, nil,
	)

	status, resp := ts.do(t, http.MethodPost, "/launch-token", map[string]interface{}{
		"name": "tkn", "symbol": "TKN", "totalSupply": "1000", "continuous": true,
	}, nil)
	require.Equal(t, http.StatusOK, status)

	result := resp["result"].(map[string]interface{})
	tokenRes := result["token"].(map[string]interface{})
	require.Equal(t, token.ID, tokenRes["id"])
	require.Equal(t, true, tokenRes["continuous"])
	intentRes := result["intent"].(map[string]interface{})
	require.Equal(t, string(domain.IntentCompleted), intentRes["status"])
	steps := intentRes["steps"].([]interface{})
	require.Len(t, steps, 1)
	require.Equal(t, "h", steps[0].(map[string]interface{})["result"].(map[string]interface{})["transaction_hash"])
}

func TestBadRequest(t *testing.T) {
	ts := newTestService(t, true)

	status, resp := ts.do(t, http.MethodPost, "/add-guest", "{not json", nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, false, resp["success"])
	ts.guestSvc.AssertNumberOfCalls(t, "AddGuest", 0)

	status, _ = ts.do(t, http.MethodGet, "/intents?page=abc", nil, nil)
	require.Equal(t, http.StatusBadRequest, status)
}

func TestAccessKeyProof(t *testing.T) {
	ts := newTestService(t, false)

	sig := []byte("signature")
	proof := ports.AccessKeyProof{
		AccountID:   "alice.testnet",
		PublicKey:   publicKey,
		BlockNumber: 123,
		Signature:   sig,
	}
	ts.guestSvc.On("VerifyAccessKeyProof", mock.Anything, proof).Return(nil)
	ts.launcherSvc.On("StorageDeposit", mock.Anything, tokenID, "implicit").
		Return(&ports.StorageDepositResult{AlreadyRegistered: true}, nil)

	body := map[string]interface{}{
		"accountId":            "alice.testnet",
		"publicKey":            publicKey,
		"blockNumber":          "123",
		"blockNumberSignature": base64.StdEncoding.EncodeToString(sig),
	}
	status, resp := ts.do(t, http.MethodPost, "/has-access-key", body, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, resp["success"])

	body["blockNumber"] = 123
	body["tokenId"] = tokenID
	body["implicitAccountId"] = "implicit"
	status, resp = ts.do(t, http.MethodPost, "/storage-deposit", body, nil)
	require.Equal(t, http.StatusOK, status)
	result := resp["result"].(map[string]interface{})
	require.Equal(t, true, result["alreadyRegistered"])

	body["blockNumberSignature"] = "!!!"
	status, _ = ts.do(t, http.MethodPost, "/has-access-key", body, nil)
	require.Equal(t, http.StatusBadRequest, status)
}

func TestInvalidAccessKeyProof(t *testing.T) {
	ts := newTestService(t, true)
	ts.guestSvc.On("VerifyAccessKeyProof", mock.Anything, mock.Anything).
		Return(errors.New("access key proof expired"))

	status, resp := ts.do(t, http.MethodPost, "/storage-deposit", map[string]interface{}{
		"accountId":            "alice.testnet",
		"publicKey":            publicKey,
		"blockNumber":          1,
		"blockNumberSignature": base64.StdEncoding.EncodeToString([]byte("sig")),
		"implicitAccountId":    "implicit",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "access key proof expired", resp["error"])
	ts.launcherSvc.AssertNumberOfCalls(t, "StorageDeposit", 0)
}

func TestIntentsAndWebhooks(t *testing.T) {
	ts := newTestService(t, true)

	intent, err := domain.NewIntent(
		domain.IntentAddGuest, "alice."+tokenID, domain.AddGuestSteps()...,
	)
	require.NoError(t, err)
	require.NoError(t, intent.Fail("boom"))
	resolved := *intent
	require.NoError(t, resolved.Resolve())

	page := domain.NewPage(2, 5)
	ts.intentSvc.On("ListIntents", mock.Anything, domain.IntentFailed, &page).
		Return([]domain.Intent{*intent}, nil)
	ts.intentSvc.On("ResolveIntent", mock.Anything, intent.ID).
		Return(&resolved, nil)
	ts.pubsubSvc.On("AddWebhook", mock.Anything, "TOKEN_LAUNCHED", "http://localhost/hook", "").
		Return("hook-id", nil)
	ts.pubsubSvc.On("RemoveWebhook", mock.Anything, "hook-id").Return(nil)

	status, resp := ts.do(t, http.MethodGet, "/intents?status=FAILED&page=2&size=5", nil, nil)
	require.Equal(t, http.StatusOK, status)
	intents := resp["intents"].([]interface{})
	require.Len(t, intents, 1)
	require.Equal(t, "boom", intents[0].(map[string]interface{})["error"])

	status, resp = ts.do(t, http.MethodPost, "/intents/resolve", map[string]string{
		"id": intent.ID,
	}, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(
		t, string(domain.IntentResolved),
		resp["intent"].(map[string]interface{})["status"],
	)

	status, resp = ts.do(t, http.MethodPost, "/webhooks", map[string]string{
		"event": "TOKEN_LAUNCHED", "endpoint": "http://localhost/hook",
	}, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "hook-id", resp["id"])

	status, _ = ts.do(t, http.MethodDelete, "/webhooks/hook-id", nil, nil)
	require.Equal(t, http.StatusOK, status)
	ts.pubsubSvc.AssertExpectations(t)
}

func TestEventsDisabled(t *testing.T) {
	ts := newTestService(t, true)

	status, resp := ts.do(t, http.MethodGet, "/events", nil, nil)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, errEventsDisabled.Error(), resp["error"])
}

func TestMetrics(t *testing.T) {
	ts := newTestService(t, true)
	ts.launcherSvc.On("TotalSupply", mock.Anything, tokenID).Return("1", nil)

	status, _ := ts.do(t, http.MethodPost, "/total-supply", map[string]string{
		"tokenId": tokenID,
	}, nil)
	require.Equal(t, http.StatusOK, status)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `launcher_http_requests_total{code="200",route="POST /total-supply"} 1`)
}

func TestEvents(t *testing.T) {
	hub := stream.NewHub()
	ts := newTestServiceWithHub(t, false, hub)
	readonlyMac, err := ts.macaroonSvc.NewMacaroon(
		context.Background(), permissions.ReadOnlyPermissions()...,
	)
	require.NoError(t, err)

	server := httptest.NewServer(ts.handler)
	defer server.Close()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/events"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	header := http.Header{}
	header.Set(macaroons.HeaderKey, hex.EncodeToString(readonlyMac))
	conn, _, err := websocket.DefaultDialer.Dial(url+"?event=GUEST_ADDED", header)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.NumClients() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish("TOKEN_LAUNCHED", `{"event":"TOKEN_LAUNCHED"}`))
	require.NoError(t, hub.Publish("GUEST_ADDED", `{"event":"GUEST_ADDED"}`))

	//nolint
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, `{"event":"GUEST_ADDED"}`, string(msg))
}
