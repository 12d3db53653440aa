package launcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/token-launcher/internal/core/ports"
	"github.com/tdex-network/token-launcher/pkg/ftcontract"
	"github.com/tdex-network/token-launcher/pkg/near"
)

// StorageBalanceOf returns the storage deposit of accountID, nil if the
// account is not registered with the token.
func (s *service) StorageBalanceOf(
	ctx context.Context, tokenID, accountID string,
) (*ports.StorageBalance, error) {
	tokenID, err := s.tokenID(tokenID)
	if err != nil {
		return nil, err
	}
	if len(accountID) <= 0 {
		return nil, ErrMissingAccount
	}

	raw, err := s.ledger.ViewFunction(
		ctx, tokenID, ftcontract.MethodStorageBalanceOf,
		ftcontract.AccountArgs{AccountID: accountID},
	)
	if err != nil {
		return nil, err
	}
	if len(raw) <= 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}

	balance := &ports.StorageBalance{}
	if err := json.Unmarshal(raw, balance); err != nil {
		return nil, fmt.Errorf("failed to decode storage balance: %w", err)
	}
	return balance, nil
}

// StorageDeposit registers accountID with the token paying the minimum
// storage balance on its behalf. Registered accounts are left untouched.
func (s *service) StorageDeposit(
	ctx context.Context, tokenID, accountID string,
) (*ports.StorageDepositResult, error) {
	tokenID, err := s.tokenID(tokenID)
	if err != nil {
		return nil, err
	}

	balance, err := s.StorageBalanceOf(ctx, tokenID, accountID)
	if err != nil {
		return nil, err
	}
	if balance != nil {
		log.Debugf("account %s already registered with %s", accountID, tokenID)
		return &ports.StorageDepositResult{
			AlreadyRegistered: true, Balance: balance,
		}, nil
	}

	raw, err := s.ledger.ViewFunction(
		ctx, tokenID, ftcontract.MethodStorageMinimumBalance, struct{}{},
	)
	if err != nil {
		return nil, err
	}
	minBalance, err := decodeU128(raw)
	if err != nil {
		return nil, err
	}
	deposit, _ := near.ParseU128(minBalance)

	outcome, err := s.ledger.FunctionCall(
		ctx, s.keystore.OwnerSigner(), tokenID, ftcontract.MethodStorageDeposit,
		ftcontract.AccountArgs{AccountID: accountID}, deposit,
	)
	if err != nil {
		return nil, err
	}
	log.Debugf("registered account %s with %s", accountID, tokenID)
	return &ports.StorageDepositResult{Outcome: outcome}, nil
}
