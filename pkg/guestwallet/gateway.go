package guestwallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/tdex-network/token-launcher/pkg/macaroons"
)

// Gateway onboards and removes guests on behalf of the wallet.
type Gateway interface {
	AddGuest(ctx context.Context, tokenID, accountID, publicKey string) error
	RemoveGuest(ctx context.Context, tokenID, publicKey string) error
}

type httpGateway struct {
	url      string
	macaroon []byte
	client   *http.Client
}

// NewHTTPGateway returns a Gateway talking to the launcher daemon at url.
// The macaroon, if any, must grant write access to guests.
func NewHTTPGateway(url string, macaroon []byte, client *http.Client) Gateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpGateway{strings.TrimSuffix(url, "/"), macaroon, client}
}

func (g *httpGateway) AddGuest(
	ctx context.Context, tokenID, accountID, publicKey string,
) error {
	return g.post(ctx, "/add-guest", map[string]string{
		"tokenId":    tokenID,
		"account_id": accountID,
		"public_key": publicKey,
	})
}

func (g *httpGateway) RemoveGuest(
	ctx context.Context, tokenID, publicKey string,
) error {
	return g.post(ctx, "/remove-guest", map[string]string{
		"tokenId":    tokenID,
		"public_key": publicKey,
	})
}

func (g *httpGateway) post(ctx context.Context, path string, body interface{}) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, g.url+path, bytes.NewReader(buf),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if len(g.macaroon) > 0 {
		macaroons.SetHeader(req, g.macaroon)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var res struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return fmt.Errorf("gateway replied with status %d", resp.StatusCode)
	}
	if !res.Success {
		return fmt.Errorf("gateway: %s", res.Error)
	}
	return nil
}
