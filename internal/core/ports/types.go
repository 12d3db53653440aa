package ports

import (
	"github.com/tdex-network/token-launcher/internal/core/domain"
	"github.com/tdex-network/token-launcher/pkg/ftcontract"
)

type LaunchTokenRequest struct {
	Name        string
	Symbol      string
	TotalSupply string
	Continuous  bool
}

type LaunchTokenResult struct {
	Token  domain.Token  `json:"token"`
	Intent domain.Intent `json:"intent"`
}

type AddGuestRequest struct {
	TokenID   string
	AccountID string
	PublicKey string
}

// AddGuestResult carries the outcomes of the two remote steps of a guest
// onboarding.
type AddGuestResult struct {
	AddKey   *Outcome      `json:"addKey"`
	AddGuest *Outcome      `json:"add_guest"`
	Guest    domain.Guest  `json:"guest"`
	Intent   domain.Intent `json:"intent"`
}

type RemoveGuestResult struct {
	RemoveGuest *Outcome      `json:"remove_guest"`
	DeleteKey   *Outcome      `json:"delete_key"`
	Intent      domain.Intent `json:"intent"`
}

// StorageBalance is the storage deposit of an account registered with a
// token contract.
type StorageBalance = ftcontract.StorageBalance

type StorageDepositResult struct {
	AlreadyRegistered bool            `json:"alreadyRegistered"`
	Balance           *StorageBalance `json:"balance,omitempty"`
	Outcome           *Outcome        `json:"outcome,omitempty"`
}

// AccessKeyProof proves that the caller holds an access key of AccountID:
// Signature is the ed25519 signature of the decimal representation of a
// recent BlockNumber made with the key PublicKey.
type AccessKeyProof struct {
	AccountID   string
	PublicKey   string
	BlockNumber uint64
	Signature   []byte
}
