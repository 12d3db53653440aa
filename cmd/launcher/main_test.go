package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	merged := merge(
		map[string]string{"rpcserver": "a", "token_id": "t"},
		map[string]string{"rpcserver": "b"},
	)
	require.Equal(t, map[string]string{"rpcserver": "b", "token_id": "t"}, merged)
}

func TestNewClientRequiresServer(t *testing.T) {
	_, err := newClient(map[string]string{})
	require.ErrorIs(t, err, errMissingRPCServer)
}

func TestClientDo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Path == "/total-supply" {
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"success": true, "supply": "1000",
				})
				return
			}
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false, "error": "boom", "intent": "abc",
			})
		},
	))
	defer srv.Close()

	c, err := newClient(map[string]string{"rpcserver": srv.URL + "/"})
	require.NoError(t, err)

	resp, err := c.post("/total-supply", map[string]string{"tokenId": "tkn"})
	require.NoError(t, err)
	require.Contains(t, string(resp), `"supply":"1000"`)

	_, err = c.post("/mint", map[string]string{"tokenId": "tkn"})
	require.EqualError(t, err, "boom (intent abc)")
}
