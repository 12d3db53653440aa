package guest

import "errors"

var (
	// ErrMissingTokenID is returned when a request names no token and no
	// default token is configured.
	ErrMissingTokenID = errors.New("missing token id")
	// ErrInvalidPublicKey ...
	ErrInvalidPublicKey = errors.New("public key must be a valid ed25519 key")
	// ErrKeyAlreadyAdded is returned when the guest key is already installed
	// on the sponsor account.
	ErrKeyAlreadyAdded = errors.New("key is already added")

	// ErrInvalidProof is returned for malformed access key proofs or proofs
	// whose signature does not verify.
	ErrInvalidProof = errors.New("invalid access key proof")
	// ErrProofExpired is returned when the signed block is too old.
	ErrProofExpired = errors.New("access key proof expired")
	// ErrAccessKeyNotFound is returned when the key of a proof is not an
	// access key of the claimed account.
	ErrAccessKeyNotFound = errors.New("access key not found")
)
