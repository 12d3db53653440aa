// Package ftcontract describes the remote surface of the fungible token
// contracts managed by the launcher: method names, the change methods guest
// keys are restricted to, and the call arguments.
package ftcontract

import (
	"math/big"
	"strings"
)

const (
	MethodNew                   = "new"
	MethodCreateToken           = "create_token"
	MethodAddGuest              = "add_guest"
	MethodRemoveGuest           = "remove_guest"
	MethodGetGuest              = "get_guest"
	MethodClaimDrop             = "claim_drop"
	MethodUpgradeGuest          = "upgrade_guest"
	MethodGetPredecessor        = "get_predecessor"
	MethodUpdateDropAmount      = "update_drop_amount"
	MethodMint                  = "mint"
	MethodFtTransfer            = "ft_transfer"
	MethodFtTransferGuest       = "ft_transfer_guest"
	MethodFtBalanceOf           = "ft_balance_of"
	MethodFtTotalSupply         = "ft_total_supply"
	MethodStorageDeposit        = "storage_deposit"
	MethodStorageMinimumBalance = "storage_minimum_balance"
	MethodStorageBalanceOf      = "storage_balance_of"
)

const (
	Decimals      = 24
	Version       = "1"
	Reference     = "https://github.com/near/core-contracts/tree/master/w-near-141"
	ReferenceHash = "7c879fa7b49901d0ecc6ff5d64d7f673da5e4a5eb52a8d50a214175760d8919a"

	// DefaultDropAmount is the amount of tokens, in minor units, a guest
	// receives when claiming the drop.
	DefaultDropAmount = "100000000000000000000000000"

	// ErrNoGuest is the panic message of get_guest for unknown keys.
	ErrNoGuest = "no guest"
	// ErrNotRegistered is the panic message of ft_balance_of and others for
	// accounts without storage deposit.
	ErrNotRegistered = "not registered"
)

// ChangeMethods returns the methods a guest function call key can call.
func ChangeMethods() []string {
	return []string{
		MethodNew, MethodCreateToken, MethodAddGuest, MethodClaimDrop,
		MethodUpgradeGuest, MethodGetPredecessor, MethodFtTransfer,
		MethodFtTransferGuest, MethodStorageDeposit,
	}
}

// JoinedChangeMethods is the form upgrade_guest expects method names in.
func JoinedChangeMethods() string {
	return strings.Join(ChangeMethods(), ",")
}

// OneYocto is the deposit required by ft_transfer.
func OneYocto() *big.Int {
	return big.NewInt(1)
}

// InitArgs are the arguments of the token constructor.
type InitArgs struct {
	OwnerID       string `json:"owner_id"`
	TotalSupply   string `json:"total_supply"`
	Version       string `json:"version"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	Reference     string `json:"reference"`
	ReferenceHash string `json:"reference_hash"`
	Decimals      int    `json:"decimals"`
}

func NewInitArgs(ownerID, name, symbol, totalSupply string) InitArgs {
	return InitArgs{
		OwnerID:       ownerID,
		TotalSupply:   totalSupply,
		Version:       Version,
		Name:          name,
		Symbol:        symbol,
		Reference:     Reference,
		ReferenceHash: ReferenceHash,
		Decimals:      Decimals,
	}
}

// CreateTokenArgs are the arguments of a factory create_token call.
type CreateTokenArgs struct {
	TokenAccountID string `json:"token_account_id"`
	InitArgs
}

type GuestArgs struct {
	AccountID string `json:"account_id"`
	PublicKey string `json:"public_key"`
}

type PublicKeyArgs struct {
	PublicKey string `json:"public_key"`
}

type AccountArgs struct {
	AccountID string `json:"account_id"`
}

type AmountArgs struct {
	Amount string `json:"amount"`
}

type MintArgs struct {
	AccountID string `json:"account_id"`
	Amount    string `json:"amount"`
}

type TransferArgs struct {
	ReceiverID string `json:"receiver_id"`
	Amount     string `json:"amount"`
	Memo       string `json:"memo,omitempty"`
}

type UpgradeGuestArgs struct {
	PublicKey   string `json:"public_key"`
	AccessKey   string `json:"access_key"`
	MethodNames string `json:"method_names"`
}

// StorageBalance is the result of storage_balance_of, null for accounts
// without deposit.
type StorageBalance struct {
	Total     string `json:"total"`
	Available string `json:"available"`
}
