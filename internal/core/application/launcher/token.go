package launcher

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/token-launcher/internal/core/ports"
	"github.com/tdex-network/token-launcher/pkg/ftcontract"
	"github.com/tdex-network/token-launcher/pkg/near"
)

func (s *service) TransferTokens(
	ctx context.Context, tokenID, receiverID, amount, memo string,
) (*ports.Outcome, error) {
	tokenID, err := s.tokenID(tokenID)
	if err != nil {
		return nil, err
	}
	if len(receiverID) <= 0 {
		return nil, ErrMissingReceiver
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	args := ftcontract.TransferArgs{
		ReceiverID: receiverID, Amount: amount, Memo: memo,
	}
	return s.ledger.FunctionCall(
		ctx, s.keystore.OwnerSigner(), tokenID, ftcontract.MethodFtTransfer,
		args, ftcontract.OneYocto(),
	)
}

// Mint issues amount new tokens to the owner.
func (s *service) Mint(
	ctx context.Context, tokenID, amount string,
) (*ports.Outcome, error) {
	tokenID, err := s.tokenID(tokenID)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	args := ftcontract.MintArgs{
		AccountID: s.keystore.OwnerAccountID(), Amount: amount,
	}
	return s.ledger.FunctionCall(
		ctx, s.keystore.OwnerSigner(), tokenID, ftcontract.MethodMint,
		args, big.NewInt(0),
	)
}

func (s *service) UpdateDropAmount(
	ctx context.Context, tokenID, amount string,
) (*ports.Outcome, error) {
	tokenID, err := s.tokenID(tokenID)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	outcome, err := s.ledger.FunctionCall(
		ctx, s.keystore.OwnerSigner(), tokenID,
		ftcontract.MethodUpdateDropAmount, ftcontract.AmountArgs{Amount: amount},
		big.NewInt(0),
	)
	if err != nil {
		return nil, err
	}
	log.Infof("drop amount of %s updated to %s", tokenID, amount)
	return outcome, nil
}

// BalanceOf returns the balance of accountID in minor units. Accounts not
// registered with the token have a zero balance.
func (s *service) BalanceOf(
	ctx context.Context, tokenID, accountID string,
) (string, error) {
	tokenID, err := s.tokenID(tokenID)
	if err != nil {
		return "", err
	}
	if len(accountID) <= 0 {
		return "", ErrMissingAccount
	}

	raw, err := s.ledger.ViewFunction(
		ctx, tokenID, ftcontract.MethodFtBalanceOf,
		ftcontract.AccountArgs{AccountID: accountID},
	)
	if err != nil {
		if near.IsContractPanic(err, ftcontract.ErrNotRegistered) {
			return "0", nil
		}
		return "", err
	}
	return decodeU128(raw)
}

func (s *service) TotalSupply(
	ctx context.Context, tokenID string,
) (string, error) {
	tokenID, err := s.tokenID(tokenID)
	if err != nil {
		return "", err
	}

	raw, err := s.ledger.ViewFunction(
		ctx, tokenID, ftcontract.MethodFtTotalSupply, struct{}{},
	)
	if err != nil {
		return "", err
	}
	return decodeU128(raw)
}

func validateAmount(amount string) error {
	v, ok := new(big.Int).SetString(amount, 10)
	if !ok || v.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// decodeU128 decodes a JSON string holding a base 10 unsigned integer.
func decodeU128(raw []byte) (string, error) {
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return "", fmt.Errorf("failed to decode amount: %w", err)
	}
	if _, err := near.ParseU128(str); err != nil {
		return "", fmt.Errorf("failed to decode amount: %w", err)
	}
	return str, nil
}
