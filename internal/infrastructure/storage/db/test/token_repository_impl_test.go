package db_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/token-launcher/internal/core/domain"
)

func TestTokenRepositoryImplementations(t *testing.T) {
	for _, repoManager := range createRepoManagers(t) {
		repo := repoManager.TokenRepository()

		t.Run(repoManager.name, func(t *testing.T) {
			tokens, err := repo.ListTokens(ctx)
			require.NoError(t, err)
			require.Empty(t, tokens)

			token := makeRandomToken(t)
			_, err = repo.GetToken(ctx, token.ID)
			require.ErrorIs(t, err, domain.ErrTokenNotFound)

			require.NoError(t, repo.AddToken(ctx, token))
			err = repo.AddToken(ctx, token)
			require.ErrorIs(t, err, domain.ErrTokenAlreadyExists)

			storedToken, err := repo.GetToken(ctx, token.ID)
			require.NoError(t, err)
			require.Equal(t, *token, *storedToken)

			require.NoError(t, repo.AddToken(ctx, makeRandomToken(t)))
			tokens, err = repo.ListTokens(ctx)
			require.NoError(t, err)
			require.Len(t, tokens, 2)
		})
	}
}
