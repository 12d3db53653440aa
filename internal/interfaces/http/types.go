package httpinterface

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tdex-network/token-launcher/internal/core/domain"
	"github.com/tdex-network/token-launcher/internal/core/ports"
)

type launchTokenRequest struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	TotalSupply string `json:"totalSupply"`
	Continuous  bool   `json:"continuous"`
}

type addGuestRequest struct {
	TokenID   string `json:"tokenId"`
	AccountID string `json:"account_id"`
	PublicKey string `json:"public_key"`
}

type guestKeyRequest struct {
	TokenID   string `json:"tokenId"`
	PublicKey string `json:"public_key"`
}

type transferTokensRequest struct {
	TokenID    string `json:"tokenId"`
	ReceiverID string `json:"receiver_id"`
	Amount     string `json:"amount"`
	Memo       string `json:"memo"`
}

type amountRequest struct {
	TokenID string `json:"tokenId"`
	Amount  string `json:"amount"`
}

type addKeyRequest struct {
	TokenID   string `json:"tokenId"`
	PublicKey string `json:"publicKey"`
}

type tokenRequest struct {
	TokenID string `json:"tokenId"`
}

type accountRequest struct {
	TokenID   string `json:"tokenId"`
	AccountID string `json:"accountId"`
}

type resolveIntentRequest struct {
	ID string `json:"id"`
}

type addWebhookRequest struct {
	Event    string `json:"event"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
}

// blockNumber accepts both JSON numbers and numeric strings.
type blockNumber uint64

func (b *blockNumber) UnmarshalJSON(buf []byte) error {
	str := strings.Trim(string(buf), `"`)
	v, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid block number %s", str)
	}
	*b = blockNumber(v)
	return nil
}

type accessKeyProofRequest struct {
	AccountID   string      `json:"accountId"`
	PublicKey   string      `json:"publicKey"`
	BlockNumber blockNumber `json:"blockNumber"`
	Signature   string      `json:"blockNumberSignature"`
}

func (r accessKeyProofRequest) proof() (ports.AccessKeyProof, error) {
	sig, err := base64.StdEncoding.DecodeString(r.Signature)
	if err != nil {
		return ports.AccessKeyProof{}, fmt.Errorf("invalid block number signature encoding")
	}
	return ports.AccessKeyProof{
		AccountID:   r.AccountID,
		PublicKey:   r.PublicKey,
		BlockNumber: uint64(r.BlockNumber),
		Signature:   sig,
	}, nil
}

type storageDepositRequest struct {
	accessKeyProofRequest
	TokenID           string `json:"tokenId"`
	ImplicitAccountID string `json:"implicitAccountId"`
}

type tokenView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	TotalSupply string `json:"totalSupply"`
	Continuous  bool   `json:"continuous"`
	OwnerID     string `json:"ownerId"`
	IntentID    string `json:"intentId,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

func newTokenView(t domain.Token) tokenView {
	return tokenView{
		ID:          t.ID,
		Name:        t.Name,
		Symbol:      t.Symbol,
		TotalSupply: t.TotalSupply,
		Continuous:  t.Continuous,
		OwnerID:     t.OwnerID,
		IntentID:    t.IntentID,
		CreatedAt:   t.CreatedAt,
	}
}

type guestView struct {
	PublicKey string `json:"publicKey"`
	AccountID string `json:"accountId"`
	TokenID   string `json:"tokenId"`
	Status    string `json:"status"`
	IntentID  string `json:"intentId,omitempty"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

func newGuestView(g domain.Guest) guestView {
	return guestView{
		PublicKey: g.PublicKey,
		AccountID: g.AccountID,
		TokenID:   g.TokenID,
		Status:    string(g.Status),
		IntentID:  g.IntentID,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

func newGuestViews(guests []domain.Guest) []guestView {
	views := make([]guestView, 0, len(guests))
	for _, g := range guests {
		views = append(views, newGuestView(g))
	}
	return views
}

type intentStepView struct {
	Name        string          `json:"name"`
	Done        bool            `json:"done"`
	Result      json.RawMessage `json:"result,omitempty"`
	CompletedAt int64           `json:"completedAt,omitempty"`
}

type intentView struct {
	ID        string           `json:"id"`
	Kind      string           `json:"kind"`
	Target    string           `json:"target"`
	Steps     []intentStepView `json:"steps"`
	Status    string           `json:"status"`
	Error     string           `json:"error,omitempty"`
	CreatedAt int64            `json:"createdAt"`
	UpdatedAt int64            `json:"updatedAt"`
}

func newIntentView(i domain.Intent) intentView {
	steps := make([]intentStepView, 0, len(i.Steps))
	for _, s := range i.Steps {
		step := intentStepView{
			Name: s.Name, Done: s.Done, CompletedAt: s.CompletedAt,
		}
		if len(s.Result) > 0 && json.Valid([]byte(s.Result)) {
			step.Result = json.RawMessage(s.Result)
		}
		steps = append(steps, step)
	}
	return intentView{
		ID:        i.ID,
		Kind:      string(i.Kind),
		Target:    i.Target,
		Steps:     steps,
		Status:    string(i.Status),
		Error:     i.Error,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

func newIntentViews(intents []domain.Intent) []intentView {
	views := make([]intentView, 0, len(intents))
	for _, i := range intents {
		views = append(views, newIntentView(i))
	}
	return views
}
