package ledger

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/token-launcher/internal/core/ports"
	"github.com/tdex-network/token-launcher/pkg/near"
)

// initMethod is the constructor of every deployed token contract.
const initMethod = "new"

type Config struct {
	NodeURL   string
	Gas       uint64
	Timeout   time.Duration
	RateLimit int
	// Registerer is where RPC metrics are registered, metrics are disabled
	// if nil.
	Registerer prometheus.Registerer
}

func (c Config) validate() error {
	if len(c.NodeURL) <= 0 {
		return fmt.Errorf("missing node url")
	}
	if c.Gas <= 0 {
		return fmt.Errorf("missing gas")
	}
	return nil
}

type service struct {
	client *near.Client
	gas    uint64
}

// NewService returns a ports.Ledger talking to the node at cfg.NodeURL.
func NewService(cfg Config) (ports.Ledger, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opts := []near.Option{near.WithRateLimit(cfg.RateLimit)}
	if cfg.Timeout > 0 {
		opts = append(opts, near.WithTimeout(cfg.Timeout))
	}
	if cfg.Registerer != nil {
		metrics, err := NewMetrics(cfg.Registerer)
		if err != nil {
			return nil, fmt.Errorf("failed to register ledger metrics: %w", err)
		}
		opts = append(opts, near.WithObserver(metrics.Observer()))
	}

	client, err := near.NewClient(cfg.NodeURL, opts...)
	if err != nil {
		return nil, err
	}

	log.Debugf("ledger client connected to %s", cfg.NodeURL)
	return &service{client, cfg.Gas}, nil
}

func (s *service) FunctionCall(
	ctx context.Context, signer ports.Signer, contractID, method string,
	args interface{}, deposit *big.Int,
) (*ports.Outcome, error) {
	log.Debugf("calling %s.%s as %s", contractID, method, signer.AccountID)
	return s.client.FunctionCall(
		ctx, signer, contractID, method, args, s.gas, deposit,
	)
}

func (s *service) ViewFunction(
	ctx context.Context, contractID, method string, args interface{},
) ([]byte, error) {
	return s.client.ViewFunction(ctx, contractID, method, args)
}

func (s *service) AddFunctionCallKey(
	ctx context.Context, signer ports.Signer, publicKey, receiverID string,
	methodNames []string, allowance *big.Int,
) (*ports.Outcome, error) {
	pk, err := near.ParsePublicKey(publicKey)
	if err != nil {
		return nil, err
	}
	log.Debugf(
		"adding function call key %s to %s for %s", pk, signer.AccountID, receiverID,
	)
	return s.client.AddKey(
		ctx, signer, pk,
		near.FunctionCallAccessKey(receiverID, methodNames, allowance),
	)
}

func (s *service) DeleteKey(
	ctx context.Context, signer ports.Signer, publicKey string,
) (*ports.Outcome, error) {
	pk, err := near.ParsePublicKey(publicKey)
	if err != nil {
		return nil, err
	}
	log.Debugf("deleting key %s from %s", pk, signer.AccountID)
	return s.client.DeleteKey(ctx, signer, pk)
}

func (s *service) CreateAccount(
	ctx context.Context, signer ports.Signer, accountID, publicKey string,
	amount *big.Int,
) (*ports.Outcome, error) {
	pk, err := near.ParsePublicKey(publicKey)
	if err != nil {
		return nil, err
	}
	log.Debugf(
		"creating account %s funded with %s", accountID, near.FormatNearAmount(amount),
	)
	return s.client.CreateAccount(ctx, signer, accountID, pk, amount)
}

func (s *service) DeployAndInit(
	ctx context.Context, signer ports.Signer, code []byte, initArgs interface{},
) (*ports.Outcome, error) {
	log.Debugf("deploying %d bytes of code to %s", len(code), signer.AccountID)
	return s.client.DeployContract(ctx, signer, code, initMethod, initArgs, s.gas)
}

func (s *service) AccountExists(
	ctx context.Context, accountID string,
) (bool, error) {
	return s.client.AccountExists(ctx, accountID)
}

func (s *service) HasAccessKey(
	ctx context.Context, accountID, publicKey string,
) (bool, error) {
	pk, err := near.ParsePublicKey(publicKey)
	if err != nil {
		return false, err
	}
	if _, err := s.client.ViewAccessKey(ctx, accountID, pk); err != nil {
		if near.IsUnknownAccessKey(err) || near.IsUnknownAccount(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *service) LatestBlockHeight(ctx context.Context) (uint64, error) {
	block, err := s.client.LatestBlock(ctx)
	if err != nil {
		return 0, err
	}
	return block.Height, nil
}

func (s *service) ListAccessKeys(
	ctx context.Context, accountID string,
) ([]ports.AccessKey, error) {
	keys, err := s.client.ViewAccessKeyList(ctx, accountID)
	if err != nil {
		return nil, err
	}

	accessKeys := make([]ports.AccessKey, 0, len(keys))
	for _, k := range keys {
		perm := k.AccessKey.Permission
		key := ports.AccessKey{
			PublicKey:   k.PublicKey.String(),
			FullAccess:  perm.FullAccess,
			ReceiverID:  perm.ReceiverID,
			MethodNames: perm.MethodNames,
		}
		if perm.Allowance != nil {
			key.Allowance = perm.Allowance.String()
		}
		accessKeys = append(accessKeys, key)
	}
	return accessKeys, nil
}
