package guest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/token-launcher/internal/core/application/intent"
	"github.com/tdex-network/token-launcher/internal/core/application/pubsub"
	"github.com/tdex-network/token-launcher/internal/core/domain"
	"github.com/tdex-network/token-launcher/internal/core/ports"
	"github.com/tdex-network/token-launcher/pkg/ftcontract"
	"github.com/tdex-network/token-launcher/pkg/near"
)

type Config struct {
	// KeyAllowance is the amount of gas fees a guest key can spend.
	KeyAllowance *big.Int
	// DefaultTokenID is used by requests that do not name a token.
	DefaultTokenID string
	// MaxBlockAge is how many blocks an access key proof stays valid.
	MaxBlockAge uint64
}

func (c Config) validate() error {
	if c.KeyAllowance == nil || c.KeyAllowance.Sign() <= 0 {
		return fmt.Errorf("missing guest key allowance")
	}
	if c.MaxBlockAge <= 0 {
		return fmt.Errorf("missing access key proof max block age")
	}
	return nil
}

type service struct {
	ledger      ports.Ledger
	keystore    ports.Keystore
	repoManager ports.RepoManager
	intents     *intent.Service
	pubsub      *pubsub.Service
	cfg         Config
}

func NewService(
	ledger ports.Ledger, keystore ports.Keystore,
	repoManager ports.RepoManager, intentSvc *intent.Service,
	pubsubSvc *pubsub.Service, cfg Config,
) (*service, error) {
	if ledger == nil {
		return nil, fmt.Errorf("missing ledger")
	}
	if keystore == nil {
		return nil, fmt.Errorf("missing keystore")
	}
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if intentSvc == nil {
		return nil, fmt.Errorf("missing intent service")
	}
	if pubsubSvc == nil {
		return nil, fmt.Errorf("missing pubsub service")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &service{ledger, keystore, repoManager, intentSvc, pubsubSvc, cfg}, nil
}

// AddGuest installs the guest key on the sponsor account, then registers
// the guest with the token contract. The two steps are not atomic: if the
// second one fails the key stays installed and the returned error carries
// the failed intent.
func (s *service) AddGuest(
	ctx context.Context, req ports.AddGuestRequest,
) (*ports.AddGuestResult, error) {
	tokenID, err := s.tokenID(req.TokenID)
	if err != nil {
		return nil, err
	}
	guest, err := domain.NewGuest(tokenID, req.AccountID, req.PublicKey)
	if err != nil {
		return nil, err
	}
	if _, err := near.ParsePublicKey(req.PublicKey); err != nil {
		return nil, ErrInvalidPublicKey
	}

	steps := intent.Steps(
		domain.AddGuestSteps(),
		func(ctx context.Context) (*ports.Outcome, error) {
			return s.ledger.AddFunctionCallKey(
				ctx, s.keystore.SponsorSigner(), guest.PublicKey, tokenID,
				ftcontract.ChangeMethods(), s.cfg.KeyAllowance,
			)
		},
		func(ctx context.Context) (*ports.Outcome, error) {
			args := ftcontract.GuestArgs{
				AccountID: guest.AccountID, PublicKey: guest.PublicKey,
			}
			return s.ledger.FunctionCall(
				ctx, s.keystore.OwnerSigner(), tokenID,
				ftcontract.MethodAddGuest, args, big.NewInt(0),
			)
		},
	)

	onboarding, outcomes, err := s.intents.Execute(
		ctx, domain.IntentAddGuest, guest.AccountID, steps...,
	)
	if err != nil {
		var wfErr *intent.WorkflowError
		if errors.As(err, &wfErr) && near.IsKeyAlreadyExists(wfErr.Err) {
			wfErr.Class = ErrKeyAlreadyAdded
		}
		return nil, err
	}

	guest.IntentID = onboarding.ID
	s.mirrorGuest(ctx, guest)
	log.Infof("added guest %s to %s", guest.AccountID, tokenID)

	s.pubsub.PublishGuestAddedEvent(*guest)
	return &ports.AddGuestResult{
		AddKey:   outcomes[0],
		AddGuest: outcomes[1],
		Guest:    *guest,
		Intent:   *onboarding,
	}, nil
}

// RemoveGuest drops the guest from the token registry, then deletes its key
// from the sponsor account.
func (s *service) RemoveGuest(
	ctx context.Context, tokenID, publicKey string,
) (*ports.RemoveGuestResult, error) {
	tokenID, err := s.tokenID(tokenID)
	if err != nil {
		return nil, err
	}
	if _, err := near.ParsePublicKey(publicKey); err != nil {
		return nil, ErrInvalidPublicKey
	}

	steps := intent.Steps(
		domain.RemoveGuestSteps(),
		func(ctx context.Context) (*ports.Outcome, error) {
			return s.ledger.FunctionCall(
				ctx, s.keystore.OwnerSigner(), tokenID,
				ftcontract.MethodRemoveGuest,
				ftcontract.PublicKeyArgs{PublicKey: publicKey}, big.NewInt(0),
			)
		},
		func(ctx context.Context) (*ports.Outcome, error) {
			return s.ledger.DeleteKey(ctx, s.keystore.SponsorSigner(), publicKey)
		},
	)

	target := domain.GuestKey(tokenID, publicKey)
	removal, outcomes, err := s.intents.Execute(
		ctx, domain.IntentRemoveGuest, target, steps...,
	)
	if err != nil {
		return nil, err
	}

	removed := domain.Guest{
		TokenID: tokenID, PublicKey: publicKey, Status: domain.GuestRemoved,
	}
	if err := s.repoManager.GuestRepository().UpdateGuest(
		ctx, tokenID, publicKey, func(g *domain.Guest) (*domain.Guest, error) {
			if err := g.MarkRemoved(); err != nil {
				return nil, err
			}
			removed = *g
			return g, nil
		},
	); err != nil {
		log.WithError(err).Debugf("guest %s not updated in local registry", target)
	}
	log.Infof("removed guest %s from %s", publicKey, tokenID)

	s.pubsub.PublishGuestRemovedEvent(removed)
	return &ports.RemoveGuestResult{
		RemoveGuest: outcomes[0],
		DeleteKey:   outcomes[1],
		Intent:      *removal,
	}, nil
}

// GetGuest returns the account id the token registry maps publicKey to.
func (s *service) GetGuest(
	ctx context.Context, tokenID, publicKey string,
) (string, error) {
	tokenID, err := s.tokenID(tokenID)
	if err != nil {
		return "", err
	}
	return s.getGuest(ctx, tokenID, publicKey)
}

func (s *service) ListGuests(
	ctx context.Context, tokenID string, status domain.GuestStatus,
) ([]domain.Guest, error) {
	tokenID, err := s.tokenID(tokenID)
	if err != nil {
		return nil, err
	}
	return s.repoManager.GuestRepository().ListGuests(ctx, tokenID, status)
}

func (s *service) getGuest(
	ctx context.Context, tokenID, publicKey string,
) (string, error) {
	raw, err := s.ledger.ViewFunction(
		ctx, tokenID, ftcontract.MethodGetGuest,
		ftcontract.PublicKeyArgs{PublicKey: publicKey},
	)
	if err != nil {
		if near.IsContractPanic(err, ftcontract.ErrNoGuest) {
			return "", domain.ErrGuestNotFound
		}
		return "", err
	}

	var accountID string
	if err := json.Unmarshal(raw, &accountID); err != nil {
		return "", fmt.Errorf("failed to decode guest account: %w", err)
	}
	return accountID, nil
}

// mirrorGuest stores the guest in the local registry. A previous record for
// the same key is overwritten, the ledger being the source of truth.
func (s *service) mirrorGuest(ctx context.Context, guest *domain.Guest) {
	repo := s.repoManager.GuestRepository()
	err := repo.AddGuest(ctx, guest)
	if errors.Is(err, domain.ErrGuestAlreadyExists) {
		err = repo.UpdateGuest(
			ctx, guest.TokenID, guest.PublicKey,
			func(g *domain.Guest) (*domain.Guest, error) {
				if g.Status == domain.GuestRemoved {
					if err := g.Reactivate(guest.AccountID, guest.IntentID); err != nil {
						return nil, err
					}
					return g, nil
				}
				return guest, nil
			},
		)
	}
	if err != nil {
		log.WithError(err).Warnf(
			"guest %s added but not stored in local registry", guest.AccountID,
		)
	}
}

func (s *service) tokenID(tokenID string) (string, error) {
	if len(tokenID) > 0 {
		return tokenID, nil
	}
	if len(s.cfg.DefaultTokenID) > 0 {
		return s.cfg.DefaultTokenID, nil
	}
	return "", ErrMissingTokenID
}
