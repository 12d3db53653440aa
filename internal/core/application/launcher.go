package application

import (
	"context"

	"github.com/tdex-network/token-launcher/internal/core/application/intent"
	"github.com/tdex-network/token-launcher/internal/core/application/launcher"
	"github.com/tdex-network/token-launcher/internal/core/application/pubsub"
	"github.com/tdex-network/token-launcher/internal/core/domain"
	"github.com/tdex-network/token-launcher/internal/core/ports"
)

type LauncherConfig = launcher.Config

type LauncherService interface {
	// Token launch
	LaunchToken(
		ctx context.Context, req ports.LaunchTokenRequest,
	) (*ports.LaunchTokenResult, error)
	GetToken(ctx context.Context, id string) (*domain.Token, error)
	ListTokens(ctx context.Context) ([]domain.Token, error)

	// Owner operations
	TransferTokens(
		ctx context.Context, tokenID, receiverID, amount, memo string,
	) (*ports.Outcome, error)
	Mint(ctx context.Context, tokenID, amount string) (*ports.Outcome, error)
	UpdateDropAmount(
		ctx context.Context, tokenID, amount string,
	) (*ports.Outcome, error)
	StorageDeposit(
		ctx context.Context, tokenID, accountID string,
	) (*ports.StorageDepositResult, error)

	// Views
	BalanceOf(ctx context.Context, tokenID, accountID string) (string, error)
	TotalSupply(ctx context.Context, tokenID string) (string, error)
	StorageBalanceOf(
		ctx context.Context, tokenID, accountID string,
	) (*ports.StorageBalance, error)
}

func NewLauncherService(
	ledger ports.Ledger, keystore ports.Keystore,
	repoManager ports.RepoManager, intentSvc IntentService,
	pubsubSvc PubSubService, cfg LauncherConfig,
) (LauncherService, error) {
	i, _ := intentSvc.(*intent.Service)
	p, _ := pubsubSvc.(*pubsub.Service)
	return launcher.NewService(ledger, keystore, repoManager, i, p, cfg)
}
