package launcher

import (
	"context"
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
	// MinAttachedBalance funds every new token account.
	MinAttachedBalance *big.Int
	// TokenWasm is the contract code deployed to new token accounts. Unused
	// in factory mode.
	TokenWasm []byte
	// FactoryAccountID, if set, makes tokens be created by the factory
	// contract instead of being deployed directly.
	FactoryAccountID string
	// DefaultTokenID is used by requests that do not name a token.
	DefaultTokenID string
}

func (c Config) validate() error {
	if c.MinAttachedBalance == nil || c.MinAttachedBalance.Sign() <= 0 {
		return fmt.Errorf("missing min attached balance")
	}
	if len(c.FactoryAccountID) <= 0 && len(c.TokenWasm) <= 0 {
		return fmt.Errorf("missing token contract code")
	}
	return nil
}

func (c Config) withFactory() bool {
	return len(c.FactoryAccountID) > 0
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

// LaunchToken creates the account of a new token and deploys the token
// contract to it, or asks the factory to do so.
func (s *service) LaunchToken(
	ctx context.Context, req ports.LaunchTokenRequest,
) (*ports.LaunchTokenResult, error) {
	ownerID := s.keystore.OwnerAccountID()
	token, err := domain.NewToken(
		req.Name, req.Symbol, req.TotalSupply, req.Continuous, ownerID,
	)
	if err != nil {
		return nil, err
	}
	if s.cfg.withFactory() {
		token.ID = domain.TokenAccountID(token.Name, s.cfg.FactoryAccountID)
	}

	exists, err := s.ledger.AccountExists(ctx, token.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token account: %w", err)
	}
	if exists {
		return nil, domain.ErrTokenAlreadyExists
	}

	initArgs := ftcontract.NewInitArgs(
		ownerID, token.Name, token.Symbol, token.TotalSupply,
	)
	launch, _, err := s.intents.Execute(
		ctx, domain.IntentLaunchToken, token.ID, s.launchSteps(token.ID, initArgs)...,
	)
	if err != nil {
		var wfErr *intent.WorkflowError
		if errors.As(err, &wfErr) && near.IsAccountAlreadyExists(wfErr.Err) {
			wfErr.Class = domain.ErrTokenAlreadyExists
		}
		return nil, err
	}

	token.IntentID = launch.ID
	if err := s.repoManager.TokenRepository().AddToken(ctx, token); err != nil {
		log.WithError(err).Warnf("token %s launched but not stored", token.ID)
	}
	log.Infof("launched token %s (%s)", token.ID, token.Symbol)

	s.pubsub.PublishTokenLaunchedEvent(*token)
	return &ports.LaunchTokenResult{Token: *token, Intent: *launch}, nil
}

func (s *service) launchSteps(
	tokenID string, initArgs ftcontract.InitArgs,
) []intent.Step {
	names := domain.LaunchTokenSteps(s.cfg.withFactory())
	if s.cfg.withFactory() {
		return intent.Steps(names, func(ctx context.Context) (*ports.Outcome, error) {
			return s.ledger.FunctionCall(
				ctx, s.keystore.OwnerSigner(), s.cfg.FactoryAccountID,
				ftcontract.MethodCreateToken,
				ftcontract.CreateTokenArgs{TokenAccountID: tokenID, InitArgs: initArgs},
				s.cfg.MinAttachedBalance,
			)
		})
	}

	return intent.Steps(
		names,
		func(ctx context.Context) (*ports.Outcome, error) {
			owner := s.keystore.OwnerSigner()
			return s.ledger.CreateAccount(
				ctx, owner, tokenID, owner.Key.PublicKey().String(),
				s.cfg.MinAttachedBalance,
			)
		},
		func(ctx context.Context) (*ports.Outcome, error) {
			return s.ledger.DeployAndInit(
				ctx, s.keystore.SignerFor(tokenID), s.cfg.TokenWasm, initArgs,
			)
		},
	)
}

func (s *service) GetToken(ctx context.Context, id string) (*domain.Token, error) {
	return s.repoManager.TokenRepository().GetToken(ctx, id)
}

func (s *service) ListTokens(ctx context.Context) ([]domain.Token, error) {
	return s.repoManager.TokenRepository().ListTokens(ctx)
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
