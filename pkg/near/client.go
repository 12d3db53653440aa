package near

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"
	"github.com/tdex-network/token-launcher/pkg/circuitbreaker"
	"go.uber.org/ratelimit"
)

const (
	defaultTimeout = 30 * time.Second
	jsonRPCVersion = "2.0"
)

// Observer is notified after every RPC round trip, with the JSON-RPC method
// name, its latency and the resulting error, if any.
type Observer func(method string, elapsed time.Duration, err error)

type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit caps the number of requests per second sent to the node.
func WithRateLimit(rps int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = ratelimit.New(rps)
		}
	}
}

func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// Client talks JSON-RPC 2.0 with a ledger node. It keeps no signing state:
// every mutating call takes its own Signer.
type Client struct {
	url        string
	httpClient *http.Client
	limiter    ratelimit.Limiter
	cb         *gobreaker.CircuitBreaker
	observer   Observer
	locks      *keyLocks
	nextID     uint64
}

func NewClient(url string, opts ...Option) (*Client, error) {
	if len(url) <= 0 {
		return nil, ErrMissingURL
	}

	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    ratelimit.NewUnlimited(),
		cb:         circuitbreaker.NewCircuitBreaker("near-rpc"),
		locks:      newKeyLocks(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) URL() string {
	return c.url
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// call performs a single JSON-RPC request. Transport failures are returned
// as plain errors, node side failures as *RPCError.
func (c *Client) call(
	ctx context.Context, method string, params interface{},
) (result json.RawMessage, err error) {
	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer(method, time.Since(start), err)
		}
	}()

	c.limiter.Take()

	id := strconv.FormatUint(atomic.AddUint64(&c.nextID, 1), 10)
	body, err := json.Marshal(rpcRequest{
		JSONRPC: jsonRPCVersion,
		ID:      id,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.url, bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	rpcResp := &rpcResponse{}
	if err := json.Unmarshal(respBody, rpcResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf(
				"rpc request failed with status %d: %s", resp.StatusCode, respBody,
			)
		}
		return nil, fmt.Errorf("failed to decode rpc response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	return rpcResp.Result, nil
}

type readResult struct {
	raw json.RawMessage
	err error
}

// callRead routes a read-only request through the circuit breaker. Only
// transport failures count towards tripping it, node side errors like
// unknown accounts are business as usual.
func (c *Client) callRead(
	ctx context.Context, method string, params interface{},
) (json.RawMessage, error) {
	res, err := c.cb.Execute(func() (interface{}, error) {
		raw, err := c.call(ctx, method, params)
		if err != nil {
			if _, ok := err.(*RPCError); !ok {
				return nil, err
			}
		}
		return readResult{raw, err}, nil
	})
	if err != nil {
		return nil, err
	}
	r := res.(readResult)
	return r.raw, r.err
}

// keyLocks serializes transactions sharing the same access key and keeps
// the last nonce used by each key. Views lag behind committed transactions,
// so the nonce they report can't be trusted alone.
type keyLocks struct {
	lock sync.Mutex
	keys map[string]*keyState
}

type keyState struct {
	sync.Mutex
	// nonce is the last nonce used with the key, 0 if unknown.
	nonce uint64
}

func newKeyLocks() *keyLocks {
	return &keyLocks{keys: make(map[string]*keyState)}
}

// acquire returns the locked state of key. The caller must unlock it.
func (k *keyLocks) acquire(key string) *keyState {
	k.lock.Lock()
	ks, ok := k.keys[key]
	if !ok {
		ks = &keyState{}
		k.keys[key] = ks
	}
	k.lock.Unlock()

	ks.Lock()
	return ks
}

// next returns the nonce for a new transaction given the one reported by the
// ledger for the key.
func (ks *keyState) next(ledgerNonce uint64) uint64 {
	if ks.nonce > ledgerNonce {
		return ks.nonce + 1
	}
	return ledgerNonce + 1
}
