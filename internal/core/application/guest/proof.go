package guest

import (
	"context"
	"strconv"

	"github.com/tdex-network/token-launcher/internal/core/ports"
	"github.com/tdex-network/token-launcher/pkg/near"
)

// VerifyAccessKeyProof checks that the caller holds an access key of the
// account it claims: the signature must verify, the signed block must be
// recent, and the key must be installed on the account.
func (s *service) VerifyAccessKeyProof(
	ctx context.Context, proof ports.AccessKeyProof,
) error {
	if len(proof.AccountID) <= 0 || len(proof.Signature) <= 0 {
		return ErrInvalidProof
	}
	pk, err := near.ParsePublicKey(proof.PublicKey)
	if err != nil {
		return ErrInvalidProof
	}

	msg := []byte(strconv.FormatUint(proof.BlockNumber, 10))
	if !near.VerifySignature(pk, msg, proof.Signature) {
		return ErrInvalidProof
	}

	height, err := s.ledger.LatestBlockHeight(ctx)
	if err != nil {
		return err
	}
	if proof.BlockNumber > height {
		return ErrInvalidProof
	}
	if height-proof.BlockNumber > s.cfg.MaxBlockAge {
		return ErrProofExpired
	}

	ok, err := s.ledger.HasAccessKey(ctx, proof.AccountID, proof.PublicKey)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccessKeyNotFound
	}
	return nil
}
