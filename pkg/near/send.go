package near

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
)

// ExecutionOutcome is the final result of a committed transaction.
type ExecutionOutcome struct {
	TransactionHash string          `json:"transaction_hash"`
	SignerID        string          `json:"signer_id"`
	ReceiverID      string          `json:"receiver_id"`
	Value           json.RawMessage `json:"value,omitempty"`
	Logs            []string        `json:"logs"`
}

// DecodeValue unmarshals the JSON value returned by the last receipt.
func (o *ExecutionOutcome) DecodeValue(v interface{}) error {
	if len(o.Value) <= 0 {
		return fmt.Errorf("call returned no value")
	}
	return json.Unmarshal(o.Value, v)
}

type rawStatus struct {
	SuccessValue     *string         `json:"SuccessValue,omitempty"`
	SuccessReceiptID *string         `json:"SuccessReceiptId,omitempty"`
	Failure          json.RawMessage `json:"Failure,omitempty"`
}

type rawOutcome struct {
	Status      json.RawMessage `json:"status"`
	Transaction struct {
		Hash       string `json:"hash"`
		SignerID   string `json:"signer_id"`
		ReceiverID string `json:"receiver_id"`
	} `json:"transaction"`
	TransactionOutcome struct {
		Outcome struct {
			Logs []string `json:"logs"`
		} `json:"outcome"`
	} `json:"transaction_outcome"`
	ReceiptsOutcome []struct {
		Outcome struct {
			Logs []string `json:"logs"`
		} `json:"outcome"`
	} `json:"receipts_outcome"`
}

func parseOutcome(raw json.RawMessage) (*ExecutionOutcome, error) {
	res := rawOutcome{}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("failed to decode execution outcome: %w", err)
	}

	status := rawStatus{}
	if err := json.Unmarshal(res.Status, &status); err != nil {
		// legacy nodes return "Unknown"/"Started" as a bare string
		return nil, fmt.Errorf("unexpected transaction status %s", res.Status)
	}
	if len(status.Failure) > 0 {
		return nil, newTxError(status.Failure)
	}

	logs := append([]string{}, res.TransactionOutcome.Outcome.Logs...)
	for _, r := range res.ReceiptsOutcome {
		logs = append(logs, r.Outcome.Logs...)
	}

	outcome := &ExecutionOutcome{
		TransactionHash: res.Transaction.Hash,
		SignerID:        res.Transaction.SignerID,
		ReceiverID:      res.Transaction.ReceiverID,
		Logs:            logs,
	}
	if status.SuccessValue != nil && len(*status.SuccessValue) > 0 {
		value, err := base64.StdEncoding.DecodeString(*status.SuccessValue)
		if err != nil {
			return nil, fmt.Errorf("failed to decode success value: %w", err)
		}
		if json.Valid(value) {
			outcome.Value = value
		} else {
			quoted, _ := json.Marshal(string(value))
			outcome.Value = quoted
		}
	}
	return outcome, nil
}

// SignAndSendTransaction builds a transaction with the given actions, signs
// it with the signer key and waits for its final outcome. It is attempted
// exactly once.
func (c *Client) SignAndSendTransaction(
	ctx context.Context, signer Signer, receiverID string, actions ...Action,
) (*ExecutionOutcome, error) {
	if err := signer.validate(); err != nil {
		return nil, err
	}
	if len(actions) <= 0 {
		return nil, ErrNoActions
	}

	pk := signer.Key.PublicKey()
	key := c.locks.acquire(signer.AccountID + "/" + pk.String())
	defer key.Unlock()

	accessKey, err := c.ViewAccessKey(ctx, signer.AccountID, pk)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to fetch access key of %s: %w", signer.AccountID, err,
		)
	}
	block, err := c.LatestBlock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest block: %w", err)
	}

	tx := &Transaction{
		SignerID:   signer.AccountID,
		PublicKey:  pk,
		Nonce:      key.next(accessKey.Nonce),
		ReceiverID: receiverID,
		BlockHash:  block.Hash,
		Actions:    actions,
	}
	signedTx, err := SignTransaction(tx, signer.Key)
	if err != nil {
		return nil, err
	}
	encodedTx, err := signedTx.Base64()
	if err != nil {
		return nil, err
	}

	// A rejected nonce means the cached one can't be trusted anymore, the
	// next transaction goes back to the ledger view.
	raw, err := c.call(ctx, "broadcast_tx_commit", []string{encodedTx})
	if err != nil {
		err = asTxError(err)
		if IsInvalidNonce(err) {
			key.nonce = 0
		} else {
			key.nonce = tx.Nonce
		}
		return nil, err
	}
	key.nonce = tx.Nonce
	outcome, err := parseOutcome(raw)
	if err != nil {
		return nil, err
	}
	if len(outcome.TransactionHash) <= 0 {
		outcome.TransactionHash = signedTx.TxHash()
	}
	return outcome, nil
}

// FunctionCall invokes a mutating contract method.
func (c *Client) FunctionCall(
	ctx context.Context, signer Signer, contractID, method string,
	args interface{}, gas uint64, deposit *big.Int,
) (*ExecutionOutcome, error) {
	argsBuf, err := marshalArgs(args)
	if err != nil {
		return nil, err
	}
	return c.SignAndSendTransaction(
		ctx, signer, contractID,
		FunctionCallAction(method, argsBuf, gas, deposit),
	)
}

// AddKey installs pk on the signer account.
func (c *Client) AddKey(
	ctx context.Context, signer Signer, pk PublicKey, ak AccessKey,
) (*ExecutionOutcome, error) {
	return c.SignAndSendTransaction(
		ctx, signer, signer.AccountID, AddKeyAction(pk, ak),
	)
}

// DeleteKey removes pk from the signer account.
func (c *Client) DeleteKey(
	ctx context.Context, signer Signer, pk PublicKey,
) (*ExecutionOutcome, error) {
	return c.SignAndSendTransaction(
		ctx, signer, signer.AccountID, DeleteKeyAction(pk),
	)
}

// CreateAccount creates a sub-account of the signer, funds it with amount
// and installs pk as its full access key.
func (c *Client) CreateAccount(
	ctx context.Context, signer Signer, accountID string, pk PublicKey,
	amount *big.Int,
) (*ExecutionOutcome, error) {
	return c.SignAndSendTransaction(
		ctx, signer, accountID,
		CreateAccountAction(),
		TransferAction(amount),
		AddKeyAction(pk, FullAccessKey()),
	)
}

// DeployContract deploys code to the signer account and, when initMethod is
// not empty, calls it in the same transaction.
func (c *Client) DeployContract(
	ctx context.Context, signer Signer, code []byte,
	initMethod string, initArgs interface{}, gas uint64,
) (*ExecutionOutcome, error) {
	actions := []Action{DeployContractAction(code)}
	if len(initMethod) > 0 {
		argsBuf, err := marshalArgs(initArgs)
		if err != nil {
			return nil, err
		}
		actions = append(
			actions, FunctionCallAction(initMethod, argsBuf, gas, big.NewInt(0)),
		)
	}
	return c.SignAndSendTransaction(ctx, signer, signer.AccountID, actions...)
}
