package httpinterface

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/token-launcher/internal/core/application"
	"github.com/tdex-network/token-launcher/internal/core/domain"
	"github.com/tdex-network/token-launcher/internal/core/ports"
)

type mockLauncherService struct {
	mock.Mock
}

func (m *mockLauncherService) LaunchToken(
	ctx context.Context, req ports.LaunchTokenRequest,
) (*ports.LaunchTokenResult, error) {
	args := m.Called(ctx, req)
	var res *ports.LaunchTokenResult
	if a := args.Get(0); a != nil {
		res = a.(*ports.LaunchTokenResult)
	}
	return res, args.Error(1)
}

func (m *mockLauncherService) GetToken(
	ctx context.Context, id string,
) (*domain.Token, error) {
	args := m.Called(ctx, id)
	var res *domain.Token
	if a := args.Get(0); a != nil {
		res = a.(*domain.Token)
	}
	return res, args.Error(1)
}

func (m *mockLauncherService) ListTokens(
	ctx context.Context,
) ([]domain.Token, error) {
	args := m.Called(ctx)
	var res []domain.Token
	if a := args.Get(0); a != nil {
		res = a.([]domain.Token)
	}
	return res, args.Error(1)
}

func (m *mockLauncherService) TransferTokens(
	ctx context.Context, tokenID, receiverID, amount, memo string,
) (*ports.Outcome, error) {
	args := m.Called(ctx, tokenID, receiverID, amount, memo)
	return outcomeArg(args)
}

func (m *mockLauncherService) Mint(
	ctx context.Context, tokenID, amount string,
) (*ports.Outcome, error) {
	args := m.Called(ctx, tokenID, amount)
	return outcomeArg(args)
}

func (m *mockLauncherService) UpdateDropAmount(
	ctx context.Context, tokenID, amount string,
) (*ports.Outcome, error) {
	args := m.Called(ctx, tokenID, amount)
	return outcomeArg(args)
}

func (m *mockLauncherService) StorageDeposit(
	ctx context.Context, tokenID, accountID string,
) (*ports.StorageDepositResult, error) {
	args := m.Called(ctx, tokenID, accountID)
	var res *ports.StorageDepositResult
	if a := args.Get(0); a != nil {
		res = a.(*ports.StorageDepositResult)
	}
	return res, args.Error(1)
}

func (m *mockLauncherService) BalanceOf(
	ctx context.Context, tokenID, accountID string,
) (string, error) {
	args := m.Called(ctx, tokenID, accountID)
	return args.String(0), args.Error(1)
}

func (m *mockLauncherService) TotalSupply(
	ctx context.Context, tokenID string,
) (string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.Error(1)
}

func (m *mockLauncherService) StorageBalanceOf(
	ctx context.Context, tokenID, accountID string,
) (*ports.StorageBalance, error) {
	args := m.Called(ctx, tokenID, accountID)
	var res *ports.StorageBalance
	if a := args.Get(0); a != nil {
		res = a.(*ports.StorageBalance)
	}
	return res, args.Error(1)
}

type mockGuestService struct {
	mock.Mock
}

func (m *mockGuestService) AddGuest(
	ctx context.Context, req ports.AddGuestRequest,
) (*ports.AddGuestResult, error) {
	args := m.Called(ctx, req)
	var res *ports.AddGuestResult
	if a := args.Get(0); a != nil {
		res = a.(*ports.AddGuestResult)
	}
	return res, args.Error(1)
}

func (m *mockGuestService) RemoveGuest(
	ctx context.Context, tokenID, publicKey string,
) (*ports.RemoveGuestResult, error) {
	args := m.Called(ctx, tokenID, publicKey)
	var res *ports.RemoveGuestResult
	if a := args.Get(0); a != nil {
		res = a.(*ports.RemoveGuestResult)
	}
	return res, args.Error(1)
}

func (m *mockGuestService) GetGuest(
	ctx context.Context, tokenID, publicKey string,
) (string, error) {
	args := m.Called(ctx, tokenID, publicKey)
	return args.String(0), args.Error(1)
}

func (m *mockGuestService) ListGuests(
	ctx context.Context, tokenID string, status domain.GuestStatus,
) ([]domain.Guest, error) {
	args := m.Called(ctx, tokenID, status)
	return guestsArg(args)
}

func (m *mockGuestService) ReconcileGuests(
	ctx context.Context, tokenID string,
) ([]domain.Guest, error) {
	args := m.Called(ctx, tokenID)
	return guestsArg(args)
}

func (m *mockGuestService) AddOwnerKey(
	ctx context.Context, publicKey, contractID string,
) (*ports.Outcome, error) {
	args := m.Called(ctx, publicKey, contractID)
	return outcomeArg(args)
}

func (m *mockGuestService) DeleteContractAccessKeys(
	ctx context.Context, contractID string,
) ([]*ports.Outcome, error) {
	args := m.Called(ctx, contractID)
	var res []*ports.Outcome
	if a := args.Get(0); a != nil {
		res = a.([]*ports.Outcome)
	}
	return res, args.Error(1)
}

func (m *mockGuestService) VerifyAccessKeyProof(
	ctx context.Context, proof ports.AccessKeyProof,
) error {
	args := m.Called(ctx, proof)
	return args.Error(0)
}

type mockIntentService struct {
	mock.Mock
}

func (m *mockIntentService) RecoverPending(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockIntentService) GetIntent(
	ctx context.Context, id string,
) (*domain.Intent, error) {
	args := m.Called(ctx, id)
	return intentArg(args)
}

func (m *mockIntentService) ListIntents(
	ctx context.Context, status domain.IntentStatus, page *domain.Page,
) ([]domain.Intent, error) {
	args := m.Called(ctx, status, page)
	return intentsArg(args)
}

func (m *mockIntentService) ListIntentsForTarget(
	ctx context.Context, target string,
) ([]domain.Intent, error) {
	args := m.Called(ctx, target)
	return intentsArg(args)
}

func (m *mockIntentService) ResolveIntent(
	ctx context.Context, id string,
) (*domain.Intent, error) {
	args := m.Called(ctx, id)
	return intentArg(args)
}

type mockPubSubService struct {
	mock.Mock
}

func (m *mockPubSubService) AddWebhook(
	ctx context.Context, event, endpoint, secret string,
) (string, error) {
	args := m.Called(ctx, event, endpoint, secret)
	return args.String(0), args.Error(1)
}

func (m *mockPubSubService) RemoveWebhook(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPubSubService) ListWebhooks(
	ctx context.Context, event string,
) ([]application.WebhookInfo, error) {
	args := m.Called(ctx, event)
	var res []application.WebhookInfo
	if a := args.Get(0); a != nil {
		res = a.([]application.WebhookInfo)
	}
	return res, args.Error(1)
}

func (m *mockPubSubService) Close() {}

func outcomeArg(args mock.Arguments) (*ports.Outcome, error) {
	var res *ports.Outcome
	if a := args.Get(0); a != nil {
		res = a.(*ports.Outcome)
	}
	return res, args.Error(1)
}

func guestsArg(args mock.Arguments) ([]domain.Guest, error) {
	var res []domain.Guest
	if a := args.Get(0); a != nil {
		res = a.([]domain.Guest)
	}
	return res, args.Error(1)
}

func intentArg(args mock.Arguments) (*domain.Intent, error) {
	var res *domain.Intent
	if a := args.Get(0); a != nil {
		res = a.(*domain.Intent)
	}
	return res, args.Error(1)
}

func intentsArg(args mock.Arguments) ([]domain.Intent, error) {
	var res []domain.Intent
	if a := args.Get(0); a != nil {
		res = a.([]domain.Intent)
	}
	return res, args.Error(1)
}
