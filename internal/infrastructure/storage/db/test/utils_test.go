package db_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/token-launcher/internal/core/domain"
	"github.com/tdex-network/token-launcher/internal/core/ports"
	dbbadger "github.com/tdex-network/token-launcher/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/token-launcher/internal/infrastructure/storage/db/inmemory"
	"github.com/thanhpk/randstr"
)

const owner = "owner.testnet"

var ctx = context.Background()

type repoManager struct {
	name string
	ports.RepoManager
}

// createRepoManagers returns a fresh instance of every implementation of
// ports.RepoManager.
func createRepoManagers(t *testing.T) []repoManager {
	badgerRepoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	inmemoryRepoManager := inmemory.NewRepoManager()

	t.Cleanup(func() {
		badgerRepoManager.Close()
		inmemoryRepoManager.Close()
	})

	return []repoManager{
		{"badger", badgerRepoManager},
		{"inmemory", inmemoryRepoManager},
	}
}

func randomName() string {
	return randstr.String(8, "abcdefghijklmnopqrstuvwxyz0123456789")
}

func randomPublicKey() string {
	return "ed25519:" + randomHex(32)
}

func randomHex(len int) string {
	return hex.EncodeToString(randomBytes(len))
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	//nolint
	rand.Read(b)
	return b
}

func makeRandomToken(t *testing.T) *domain.Token {
	token, err := domain.NewToken(randomName(), "TKN", "1000", false, owner)
	require.NoError(t, err)
	return token
}

func makeRandomGuest(t *testing.T, tokenID string) *domain.Guest {
	guest, err := domain.NewGuest(
		tokenID, randomName()+"."+tokenID, randomPublicKey(),
	)
	require.NoError(t, err)
	return guest
}
