package near

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
)

const finalityFinal = "final"

type Account struct {
	Amount        string `json:"amount"`
	Locked        string `json:"locked"`
	CodeHash      string `json:"code_hash"`
	StorageUsage  uint64 `json:"storage_usage"`
	StoragePaidAt uint64 `json:"storage_paid_at"`
	BlockHeight   uint64 `json:"block_height"`
	BlockHash     string `json:"block_hash"`
}

type AccessKeyView struct {
	Nonce       uint64              `json:"nonce"`
	Permission  AccessKeyPermission `json:"-"`
	BlockHeight uint64              `json:"block_height"`
	BlockHash   string              `json:"block_hash"`
}

type AccessKeyInfo struct {
	PublicKey PublicKey
	AccessKey AccessKey
}

type Block struct {
	Height uint64
	Hash   [32]byte
}

// rawAccessKey mirrors the JSON layout of an access key, whose permission
// is either the string "FullAccess" or a {"FunctionCall": {...}} object.
type rawAccessKey struct {
	Nonce       uint64          `json:"nonce"`
	Permission  json.RawMessage `json:"permission"`
	BlockHeight uint64          `json:"block_height"`
	BlockHash   string          `json:"block_hash"`
}

func (r rawAccessKey) permission() (AccessKeyPermission, error) {
	var full string
	if err := json.Unmarshal(r.Permission, &full); err == nil {
		if full != "FullAccess" {
			return AccessKeyPermission{}, fmt.Errorf("unknown permission %s", full)
		}
		return AccessKeyPermission{FullAccess: true}, nil
	}

	var fc struct {
		FunctionCall struct {
			Allowance   *string  `json:"allowance"`
			ReceiverID  string   `json:"receiver_id"`
			MethodNames []string `json:"method_names"`
		} `json:"FunctionCall"`
	}
	if err := json.Unmarshal(r.Permission, &fc); err != nil {
		return AccessKeyPermission{}, err
	}
	perm := AccessKeyPermission{
		ReceiverID:  fc.FunctionCall.ReceiverID,
		MethodNames: fc.FunctionCall.MethodNames,
	}
	if fc.FunctionCall.Allowance != nil {
		allowance, err := ParseU128(*fc.FunctionCall.Allowance)
		if err != nil {
			return AccessKeyPermission{}, err
		}
		perm.Allowance = allowance
	}
	return perm, nil
}

func (c *Client) query(
	ctx context.Context, params map[string]interface{}, result interface{},
) error {
	if _, ok := params["block_id"]; !ok {
		params["finality"] = finalityFinal
	}

	raw, err := c.callRead(ctx, "query", params)
	if err != nil {
		return err
	}

	var embedded struct {
		Error string   `json:"error"`
		Logs  []string `json:"logs"`
	}
	if err := json.Unmarshal(raw, &embedded); err == nil && len(embedded.Error) > 0 {
		return &QueryError{embedded.Error, embedded.Logs}
	}

	return json.Unmarshal(raw, result)
}

// ViewFunction calls a read-only contract method and returns the raw bytes
// it produced, usually JSON.
func (c *Client) ViewFunction(
	ctx context.Context, contractID, method string, args interface{},
) ([]byte, error) {
	argsBuf, err := marshalArgs(args)
	if err != nil {
		return nil, err
	}

	var res struct {
		Result []int    `json:"result"`
		Logs   []string `json:"logs"`
	}
	if err := c.query(ctx, map[string]interface{}{
		"request_type": "call_function",
		"account_id":   contractID,
		"method_name":  method,
		"args_base64":  base64.StdEncoding.EncodeToString(argsBuf),
	}, &res); err != nil {
		return nil, err
	}

	buf := make([]byte, len(res.Result))
	for i, b := range res.Result {
		buf[i] = byte(b)
	}
	return buf, nil
}

func (c *Client) ViewAccount(
	ctx context.Context, accountID string,
) (*Account, error) {
	account := &Account{}
	if err := c.query(ctx, map[string]interface{}{
		"request_type": "view_account",
		"account_id":   accountID,
	}, account); err != nil {
		return nil, err
	}
	return account, nil
}

// AccountExists maps the unknown-account failure to false.
func (c *Client) AccountExists(
	ctx context.Context, accountID string,
) (bool, error) {
	if _, err := c.ViewAccount(ctx, accountID); err != nil {
		if IsUnknownAccount(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c *Client) ViewAccessKey(
	ctx context.Context, accountID string, pk PublicKey,
) (*AccessKeyView, error) {
	raw := rawAccessKey{}
	if err := c.query(ctx, map[string]interface{}{
		"request_type": "view_access_key",
		"account_id":   accountID,
		"public_key":   pk.String(),
	}, &raw); err != nil {
		return nil, err
	}
	perm, err := raw.permission()
	if err != nil {
		return nil, err
	}
	return &AccessKeyView{
		Nonce:       raw.Nonce,
		Permission:  perm,
		BlockHeight: raw.BlockHeight,
		BlockHash:   raw.BlockHash,
	}, nil
}

func (c *Client) ViewAccessKeyList(
	ctx context.Context, accountID string,
) ([]AccessKeyInfo, error) {
	var res struct {
		Keys []struct {
			PublicKey string       `json:"public_key"`
			AccessKey rawAccessKey `json:"access_key"`
		} `json:"keys"`
	}
	if err := c.query(ctx, map[string]interface{}{
		"request_type": "view_access_key_list",
		"account_id":   accountID,
	}, &res); err != nil {
		return nil, err
	}

	keys := make([]AccessKeyInfo, 0, len(res.Keys))
	for _, k := range res.Keys {
		pk, err := ParsePublicKey(k.PublicKey)
		if err != nil {
			return nil, err
		}
		perm, err := k.AccessKey.permission()
		if err != nil {
			return nil, err
		}
		keys = append(keys, AccessKeyInfo{
			PublicKey: pk,
			AccessKey: AccessKey{Nonce: k.AccessKey.Nonce, Permission: perm},
		})
	}
	return keys, nil
}

// LatestBlock returns the last final block.
func (c *Client) LatestBlock(ctx context.Context) (*Block, error) {
	raw, err := c.callRead(ctx, "block", map[string]interface{}{
		"finality": finalityFinal,
	})
	if err != nil {
		return nil, err
	}

	var res struct {
		Header struct {
			Height uint64 `json:"height"`
			Hash   string `json:"hash"`
		} `json:"header"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	hash, err := decodeBlockHash(res.Header.Hash)
	if err != nil {
		return nil, err
	}
	return &Block{res.Header.Height, hash}, nil
}

// ViewBalance is a convenience for the native balance of an account.
func (c *Client) ViewBalance(
	ctx context.Context, accountID string,
) (*big.Int, error) {
	account, err := c.ViewAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return ParseU128(account.Amount)
}

func marshalArgs(args interface{}) ([]byte, error) {
	switch v := args.(type) {
	case nil:
		return []byte("{}"), nil
	case []byte:
		if len(v) <= 0 {
			return []byte("{}"), nil
		}
		return v, nil
	case json.RawMessage:
		if len(v) <= 0 {
			return []byte("{}"), nil
		}
		return v, nil
	default:
		buf, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal call args: %w", err)
		}
		return buf, nil
	}
}
