package near

import (
	"crypto/sha256"
	"encoding/base64"
	"math/big"

	"github.com/btcsuite/btcd/btcutil/base58"
)

type ActionKind uint8

// Order matters, values are the borsh enum tags of the ledger.
const (
	ActionCreateAccount ActionKind = iota
	ActionDeployContract
	ActionFunctionCall
	ActionTransfer
	ActionStake
	ActionAddKey
	ActionDeleteKey
	ActionDeleteAccount
)

var actionNames = map[ActionKind]string{
	ActionCreateAccount:  "CreateAccount",
	ActionDeployContract: "DeployContract",
	ActionFunctionCall:   "FunctionCall",
	ActionTransfer:       "Transfer",
	ActionStake:          "Stake",
	ActionAddKey:         "AddKey",
	ActionDeleteKey:      "DeleteKey",
	ActionDeleteAccount:  "DeleteAccount",
}

func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return "Unknown"
}

// AccessKeyPermission is either full access or a function-call allowance
// restricted to a receiver and, optionally, a set of method names.
type AccessKeyPermission struct {
	FullAccess  bool
	Allowance   *big.Int
	ReceiverID  string
	MethodNames []string
}

type AccessKey struct {
	Nonce      uint64
	Permission AccessKeyPermission
}

func FullAccessKey() AccessKey {
	return AccessKey{Permission: AccessKeyPermission{FullAccess: true}}
}

// FunctionCallAccessKey returns a key allowed to call methodNames on
// receiverID, spending at most allowance for gas. A nil allowance means
// unlimited.
func FunctionCallAccessKey(
	receiverID string, methodNames []string, allowance *big.Int,
) AccessKey {
	return AccessKey{
		Permission: AccessKeyPermission{
			Allowance:   allowance,
			ReceiverID:  receiverID,
			MethodNames: methodNames,
		},
	}
}

type Action struct {
	Kind          ActionKind
	Code          []byte
	MethodName    string
	Args          []byte
	Gas           uint64
	Deposit       *big.Int
	PublicKey     PublicKey
	AccessKey     AccessKey
	BeneficiaryID string
}

func CreateAccountAction() Action {
	return Action{Kind: ActionCreateAccount}
}

func DeployContractAction(code []byte) Action {
	return Action{Kind: ActionDeployContract, Code: code}
}

func FunctionCallAction(
	method string, args []byte, gas uint64, deposit *big.Int,
) Action {
	return Action{
		Kind:       ActionFunctionCall,
		MethodName: method,
		Args:       args,
		Gas:        gas,
		Deposit:    deposit,
	}
}

func TransferAction(deposit *big.Int) Action {
	return Action{Kind: ActionTransfer, Deposit: deposit}
}

func AddKeyAction(pk PublicKey, ak AccessKey) Action {
	return Action{Kind: ActionAddKey, PublicKey: pk, AccessKey: ak}
}

func DeleteKeyAction(pk PublicKey) Action {
	return Action{Kind: ActionDeleteKey, PublicKey: pk}
}

func (a Action) serialize(w *borshWriter) {
	w.u8(uint8(a.Kind))

	switch a.Kind {
	case ActionCreateAccount:
	case ActionDeployContract:
		w.bytes(a.Code)
	case ActionFunctionCall:
		w.string(a.MethodName)
		w.bytes(a.Args)
		w.u64(a.Gas)
		w.u128(a.Deposit)
	case ActionTransfer:
		w.u128(a.Deposit)
	case ActionStake:
		w.u128(a.Deposit)
		w.publicKey(a.PublicKey)
	case ActionAddKey:
		w.publicKey(a.PublicKey)
		w.u64(a.AccessKey.Nonce)
		perm := a.AccessKey.Permission
		if perm.FullAccess {
			w.u8(1)
			return
		}
		w.u8(0)
		if perm.Allowance == nil {
			w.u8(0)
		} else {
			w.u8(1)
			w.u128(perm.Allowance)
		}
		w.string(perm.ReceiverID)
		w.u32(uint32(len(perm.MethodNames)))
		for _, m := range perm.MethodNames {
			w.string(m)
		}
	case ActionDeleteKey:
		w.publicKey(a.PublicKey)
	case ActionDeleteAccount:
		w.string(a.BeneficiaryID)
	}
}

// Transaction is the unsigned envelope submitted to the ledger.
type Transaction struct {
	SignerID   string
	PublicKey  PublicKey
	Nonce      uint64
	ReceiverID string
	BlockHash  [32]byte
	Actions    []Action
}

func (tx *Transaction) Serialize() ([]byte, error) {
	if len(tx.Actions) <= 0 {
		return nil, ErrNoActions
	}

	w := &borshWriter{}
	w.string(tx.SignerID)
	w.publicKey(tx.PublicKey)
	w.u64(tx.Nonce)
	w.string(tx.ReceiverID)
	w.fixed(tx.BlockHash[:])
	w.u32(uint32(len(tx.Actions)))
	for _, a := range tx.Actions {
		a.serialize(w)
	}
	return w.result()
}

// Hash returns the sha256 digest of the serialized transaction, the message
// that gets signed.
func (tx *Transaction) Hash() ([32]byte, error) {
	buf, err := tx.Serialize()
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(buf), nil
}

type SignedTransaction struct {
	Transaction *Transaction
	Signature   []byte
	Hash        [32]byte
}

// SignTransaction signs tx with key. The key must match tx.PublicKey.
func SignTransaction(tx *Transaction, key *KeyPair) (*SignedTransaction, error) {
	if key == nil {
		return nil, ErrMissingSignerKey
	}
	if key.PublicKey() != tx.PublicKey {
		return nil, ErrInvalidSecretKey
	}
	hash, err := tx.Hash()
	if err != nil {
		return nil, err
	}
	return &SignedTransaction{
		Transaction: tx,
		Signature:   key.Sign(hash[:]),
		Hash:        hash,
	}, nil
}

func (s *SignedTransaction) Serialize() ([]byte, error) {
	txBytes, err := s.Transaction.Serialize()
	if err != nil {
		return nil, err
	}
	w := &borshWriter{}
	w.fixed(txBytes)
	w.u8(KeyTypeED25519)
	w.fixed(s.Signature)
	return w.result()
}

// Base64 is the encoding expected by broadcast_tx_* RPC methods.
func (s *SignedTransaction) Base64() (string, error) {
	buf, err := s.Serialize()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// TxHash is the base58 transaction id as shown by explorers.
func (s *SignedTransaction) TxHash() string {
	return base58.Encode(s.Hash[:])
}

func decodeBlockHash(str string) ([32]byte, error) {
	var hash [32]byte
	buf := base58.Decode(str)
	if len(buf) != len(hash) {
		return hash, ErrInvalidBlockHash
	}
	copy(hash[:], buf)
	return hash, nil
}
