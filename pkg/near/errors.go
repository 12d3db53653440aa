package near

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidPublicKey     = errors.New("invalid ed25519 public key")
	ErrInvalidSecretKey     = errors.New("invalid ed25519 secret key")
	ErrInvalidKeyEncoding   = errors.New("invalid base58 key encoding")
	ErrUnsupportedKeyType   = errors.New("unsupported key type, must be ed25519")
	ErrMissingSignerAccount = errors.New("missing signer account id")
	ErrMissingSignerKey     = errors.New("missing signer key")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrAmountTooPrecise     = errors.New("amount has more decimals than allowed")
	ErrU128Overflow         = errors.New("value does not fit into u128")
	ErrInvalidSeedPhrase    = errors.New("invalid seed phrase")
	ErrMissingURL           = errors.New("missing rpc url")
	ErrInvalidBlockHash     = errors.New("invalid block hash")
	ErrNoActions            = errors.New("transaction must contain at least one action")
)

// RPCError is the error object of a JSON-RPC response.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Name    string          `json:"name,omitempty"`
	Cause   *ErrorCause     `json:"cause,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type ErrorCause struct {
	Name string          `json:"name"`
	Info json.RawMessage `json:"info,omitempty"`
}

func (e *RPCError) Error() string {
	msg := e.Message
	if e.Cause != nil && len(e.Cause.Name) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, e.Cause.Name)
	}
	if len(e.Data) > 0 {
		var data string
		if err := json.Unmarshal(e.Data, &data); err == nil {
			return fmt.Sprintf("%s (%s)", msg, data)
		}
	}
	return msg
}

// causeName returns the cause name, falling back to the top level name.
func (e *RPCError) causeName() string {
	if e.Cause != nil {
		return e.Cause.Name
	}
	return e.Name
}

// QueryError is returned by nodes that embed view failures in the result
// object instead of the error one.
type QueryError struct {
	Message string
	Logs    []string
}

func (e *QueryError) Error() string {
	return e.Message
}

// TxError is a ledger side rejection of a transaction or one of its
// receipts. Raw holds the failure object exactly as returned by the node.
type TxError struct {
	Kind    string
	Message string
	Raw     json.RawMessage
}

func (e *TxError) Error() string {
	if len(e.Message) > 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, string(e.Raw))
}

// newTxError turns a `Failure` object into a TxError. The object is either an
// ActionError or an InvalidTxError, both a tree of single-key maps.
func newTxError(raw json.RawMessage) *TxError {
	txErr := &TxError{Kind: "TxExecutionError", Raw: raw}

	var failure map[string]json.RawMessage
	if err := json.Unmarshal(raw, &failure); err != nil {
		return txErr
	}

	if actionErr, ok := failure["ActionError"]; ok {
		var ae struct {
			Index *int                       `json:"index"`
			Kind  map[string]json.RawMessage `json:"kind"`
		}
		if err := json.Unmarshal(actionErr, &ae); err != nil {
			return txErr
		}
		kind, info := singleKey(ae.Kind)
		txErr.Kind = kind
		txErr.Message = describeActionError(kind, info)
		return txErr
	}

	if invalidTx, ok := failure["InvalidTxError"]; ok {
		var it map[string]json.RawMessage
		if err := json.Unmarshal(invalidTx, &it); err != nil {
			// some variants are plain strings, e.g. "Expired"
			var kind string
			if err := json.Unmarshal(invalidTx, &kind); err == nil {
				txErr.Kind = kind
			}
			return txErr
		}
		kind, info := singleKey(it)
		txErr.Kind = kind
		txErr.Message = compact(info)
		return txErr
	}

	kind, info := singleKey(failure)
	if len(kind) > 0 {
		txErr.Kind = kind
		txErr.Message = compact(info)
	}
	return txErr
}

func describeActionError(kind string, info json.RawMessage) string {
	var fields struct {
		AccountID string `json:"account_id"`
		PublicKey string `json:"public_key"`
	}
	_ = json.Unmarshal(info, &fields)

	switch kind {
	case "AccountAlreadyExists":
		return fmt.Sprintf("account %s already exists", fields.AccountID)
	case "AddKeyAlreadyExists":
		return fmt.Sprintf(
			"public key %s already exists on account %s",
			fields.PublicKey, fields.AccountID,
		)
	case "FunctionCallError":
		var fc map[string]json.RawMessage
		if err := json.Unmarshal(info, &fc); err != nil {
			return compact(info)
		}
		if execErr, ok := fc["ExecutionError"]; ok {
			var msg string
			if err := json.Unmarshal(execErr, &msg); err == nil {
				return msg
			}
		}
		k, v := singleKey(fc)
		return fmt.Sprintf("%s %s", k, compact(v))
	default:
		return compact(info)
	}
}

func singleKey(m map[string]json.RawMessage) (string, json.RawMessage) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	if len(keys) <= 0 {
		return "", nil
	}
	sort.Strings(keys)
	return keys[0], m[keys[0]]
}

func compact(raw json.RawMessage) string {
	if len(raw) <= 0 || string(raw) == "null" {
		return ""
	}
	return string(raw)
}

// asTxError converts an RPC error carrying a TxExecutionError payload into
// a TxError, leaving any other error untouched.
func asTxError(err error) error {
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) || len(rpcErr.Data) <= 0 {
		return err
	}
	var data map[string]json.RawMessage
	if e := json.Unmarshal(rpcErr.Data, &data); e != nil {
		return err
	}
	if txExecErr, ok := data["TxExecutionError"]; ok {
		return newTxError(txExecErr)
	}
	return err
}

// IsAccountAlreadyExists tells whether err is the ledger refusing to create
// an account because the name is taken.
func IsAccountAlreadyExists(err error) bool {
	var txErr *TxError
	if errors.As(err, &txErr) {
		if txErr.Kind == "AccountAlreadyExists" {
			return true
		}
		return txErr.Kind == "FunctionCallError" &&
			strings.Contains(txErr.Message, "already exists")
	}
	return false
}

// IsKeyAlreadyExists tells whether err is an AddKey action failing because
// the key is already installed.
func IsKeyAlreadyExists(err error) bool {
	var txErr *TxError
	return errors.As(err, &txErr) && txErr.Kind == "AddKeyAlreadyExists"
}

// IsInvalidNonce tells whether err is a transaction rejected because its
// nonce was already used.
func IsInvalidNonce(err error) bool {
	var txErr *TxError
	return errors.As(err, &txErr) && txErr.Kind == "InvalidNonce"
}

// IsUnknownAccount tells whether err is a query for a missing account.
func IsUnknownAccount(err error) bool {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.causeName() == "UNKNOWN_ACCOUNT"
	}
	var queryErr *QueryError
	if errors.As(err, &queryErr) {
		return strings.Contains(queryErr.Message, "does not exist while viewing")
	}
	return false
}

// IsUnknownAccessKey tells whether err is a query for a key that is not
// installed on the account.
func IsUnknownAccessKey(err error) bool {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.causeName() == "UNKNOWN_ACCESS_KEY"
	}
	var queryErr *QueryError
	if errors.As(err, &queryErr) {
		return strings.Contains(queryErr.Message, "access key") &&
			strings.Contains(queryErr.Message, "does not exist")
	}
	return false
}

// IsContractPanic tells whether err is a view or function call rejected by
// the contract code with a message containing substr.
func IsContractPanic(err error, substr string) bool {
	var txErr *TxError
	if errors.As(err, &txErr) {
		return txErr.Kind == "FunctionCallError" &&
			strings.Contains(txErr.Message, substr)
	}
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		if rpcErr.causeName() != "CONTRACT_EXECUTION_ERROR" || rpcErr.Cause == nil {
			return false
		}
		return strings.Contains(string(rpcErr.Cause.Info), substr)
	}
	var queryErr *QueryError
	if errors.As(err, &queryErr) {
		return strings.Contains(queryErr.Message, substr)
	}
	return false
}
