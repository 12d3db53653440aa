package ports

import (
	"context"
	"math/big"

	"github.com/tdex-network/token-launcher/pkg/near"
)

// Signer is the per-call signing context: account id plus keypair.
type Signer = near.Signer

// Outcome is the final result of a committed transaction.
type Outcome = near.ExecutionOutcome

type AccessKey struct {
	PublicKey   string   `json:"public_key"`
	FullAccess  bool     `json:"full_access"`
	ReceiverID  string   `json:"receiver_id,omitempty"`
	MethodNames []string `json:"method_names,omitempty"`
	Allowance   string   `json:"allowance,omitempty"`
}

// Ledger is the remote ledger as seen by application services. Mutating
// methods are attempted exactly once and take the signer explicitly.
type Ledger interface {
	// FunctionCall calls a change method of contractID attaching deposit.
	FunctionCall(
		ctx context.Context, signer Signer, contractID, method string,
		args interface{}, deposit *big.Int,
	) (*Outcome, error)
	// ViewFunction calls a view method and returns its raw JSON result.
	ViewFunction(
		ctx context.Context, contractID, method string, args interface{},
	) ([]byte, error)
	// AddFunctionCallKey installs publicKey on the signer account, restricted
	// to methodNames of receiverID.
	AddFunctionCallKey(
		ctx context.Context, signer Signer, publicKey, receiverID string,
		methodNames []string, allowance *big.Int,
	) (*Outcome, error)
	DeleteKey(
		ctx context.Context, signer Signer, publicKey string,
	) (*Outcome, error)
	// CreateAccount creates accountID as sub-account of the signer, funded
	// with amount and controlled by publicKey.
	CreateAccount(
		ctx context.Context, signer Signer, accountID, publicKey string,
		amount *big.Int,
	) (*Outcome, error)
	// DeployAndInit deploys code to the signer account and calls its `new`
	// method with initArgs.
	DeployAndInit(
		ctx context.Context, signer Signer, code []byte, initArgs interface{},
	) (*Outcome, error)
	AccountExists(ctx context.Context, accountID string) (bool, error)
	HasAccessKey(
		ctx context.Context, accountID, publicKey string,
	) (bool, error)
	LatestBlockHeight(ctx context.Context) (uint64, error)
	ListAccessKeys(ctx context.Context, accountID string) ([]AccessKey, error)
}
