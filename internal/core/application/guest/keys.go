package guest

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/token-launcher/internal/core/ports"
	"github.com/tdex-network/token-launcher/pkg/ftcontract"
	"github.com/tdex-network/token-launcher/pkg/near"
)

// AddOwnerKey installs publicKey on the owner account as a function call key
// restricted to the change methods of contractID. The owner account itself
// is used if contractID is empty and there is no default token.
func (s *service) AddOwnerKey(
	ctx context.Context, publicKey, contractID string,
) (*ports.Outcome, error) {
	if _, err := near.ParsePublicKey(publicKey); err != nil {
		return nil, ErrInvalidPublicKey
	}
	receiverID := s.receiverID(contractID)

	outcome, err := s.ledger.AddFunctionCallKey(
		ctx, s.keystore.OwnerSigner(), publicKey, receiverID,
		ftcontract.ChangeMethods(), s.cfg.KeyAllowance,
	)
	if err != nil {
		if near.IsKeyAlreadyExists(err) {
			return nil, ErrKeyAlreadyAdded
		}
		return nil, err
	}
	log.Infof("added key %s to owner account for %s", publicKey, receiverID)
	return outcome, nil
}

// DeleteContractAccessKeys deletes all the function call keys of the owner
// account that are restricted to contractID. It stops at the first failure
// returning the outcomes of the deletions done so far.
func (s *service) DeleteContractAccessKeys(
	ctx context.Context, contractID string,
) ([]*ports.Outcome, error) {
	owner := s.keystore.OwnerSigner()
	receiverID := s.receiverID(contractID)

	keys, err := s.ledger.ListAccessKeys(ctx, owner.AccountID)
	if err != nil {
		return nil, err
	}

	outcomes := make([]*ports.Outcome, 0)
	for _, key := range keys {
		if key.FullAccess || key.ReceiverID != receiverID {
			continue
		}
		outcome, err := s.ledger.DeleteKey(ctx, owner, key.PublicKey)
		if err != nil {
			return outcomes, fmt.Errorf(
				"failed to delete key %s: %w", key.PublicKey, err,
			)
		}
		outcomes = append(outcomes, outcome)
	}

	log.Infof("deleted %d owner keys for %s", len(outcomes), receiverID)
	return outcomes, nil
}

func (s *service) receiverID(contractID string) string {
	if id, err := s.tokenID(contractID); err == nil {
		return id
	}
	return s.keystore.OwnerAccountID()
}
