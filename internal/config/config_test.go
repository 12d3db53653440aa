package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/token-launcher/pkg/near"
)

func setEnv(t *testing.T, key, value string) {
	t.Setenv("LAUNCHER_"+key, value)
}

func TestInitConfig(t *testing.T) {
	datadir := t.TempDir()
	wasm := filepath.Join(datadir, "token.wasm")
	require.NoError(t, os.WriteFile(wasm, []byte{0x00, 0x61, 0x73, 0x6d}, 0644))
	kp, err := near.GenerateKeyPair()
	require.NoError(t, err)

	setEnv(t, DatadirKey, datadir)
	setEnv(t, OwnerAccountIDKey, "owner.testnet")
	setEnv(t, GuestsAccountSecretKey, kp.SecretKey())
	setEnv(t, TokenWasmPathKey, wasm)

	require.NoError(t, InitConfig())
	require.Equal(t, 3000, GetInt(ListeningPortKey))
	require.Equal(t, "testnet", GetString(NetworkIDKey))
	require.Equal(t, uint64(200000000000000), GetUint64(GasKey))
	require.Equal(
		t,
		filepath.Join(GetString(CredentialsDirKey), "testnet", "owner.testnet.json"),
		GetCredentialsFile(),
	)

	for _, dir := range []string{DbLocation, PubSubLocation, MacaroonsLocation} {
		info, err := os.Stat(filepath.Join(datadir, dir))
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}
}

func TestInitConfigFails(t *testing.T) {
	kp, err := near.GenerateKeyPair()
	require.NoError(t, err)

	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing owner",
			env: map[string]string{
				GuestsAccountSecretKey: kp.SecretKey(),
				FactoryAccountIDKey:    "factory.testnet",
			},
		},
		{
			name: "invalid guests secret",
			env: map[string]string{
				OwnerAccountIDKey:      "owner.testnet",
				GuestsAccountSecretKey: "ed25519:notakey",
				FactoryAccountIDKey:    "factory.testnet",
			},
		},
		{
			name: "missing wasm and factory",
			env: map[string]string{
				OwnerAccountIDKey:      "owner.testnet",
				GuestsAccountSecretKey: kp.SecretKey(),
			},
		},
		{
			name: "invalid allowance",
			env: map[string]string{
				OwnerAccountIDKey:      "owner.testnet",
				GuestsAccountSecretKey: kp.SecretKey(),
				FactoryAccountIDKey:    "factory.testnet",
				GuestKeyAllowanceKey:   "-1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, DatadirKey, t.TempDir())
			for k, v := range tt.env {
				setEnv(t, k, v)
			}
			require.Error(t, InitConfig())
		})
	}
}
