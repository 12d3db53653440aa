package application

import (
	"context"

	"github.com/tdex-network/token-launcher/internal/core/application/guest"
	"github.com/tdex-network/token-launcher/internal/core/application/intent"
	"github.com/tdex-network/token-launcher/internal/core/application/pubsub"
	"github.com/tdex-network/token-launcher/internal/core/domain"
	"github.com/tdex-network/token-launcher/internal/core/ports"
)

type GuestConfig = guest.Config

type GuestService interface {
	// Guest registry
	AddGuest(
		ctx context.Context, req ports.AddGuestRequest,
	) (*ports.AddGuestResult, error)
	RemoveGuest(
		ctx context.Context, tokenID, publicKey string,
	) (*ports.RemoveGuestResult, error)
	GetGuest(ctx context.Context, tokenID, publicKey string) (string, error)
	ListGuests(
		ctx context.Context, tokenID string, status domain.GuestStatus,
	) ([]domain.Guest, error)
	ReconcileGuests(ctx context.Context, tokenID string) ([]domain.Guest, error)

	// Owner keys
	AddOwnerKey(
		ctx context.Context, publicKey, contractID string,
	) (*ports.Outcome, error)
	DeleteContractAccessKeys(
		ctx context.Context, contractID string,
	) ([]*ports.Outcome, error)

	// Access key proofs
	VerifyAccessKeyProof(ctx context.Context, proof ports.AccessKeyProof) error
}

func NewGuestService(
	ledger ports.Ledger, keystore ports.Keystore,
	repoManager ports.RepoManager, intentSvc IntentService,
	pubsubSvc PubSubService, cfg GuestConfig,
) (GuestService, error) {
	i, _ := intentSvc.(*intent.Service)
	p, _ := pubsubSvc.(*pubsub.Service)
	return guest.NewService(ledger, keystore, repoManager, i, p, cfg)
}
