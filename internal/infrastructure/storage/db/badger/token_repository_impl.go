package dbbadger

import (
	"context"

	"github.com/tdex-network/token-launcher/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type tokenRepositoryImpl struct {
	store *badgerhold.Store
}

// NewTokenRepositoryImpl initialize a badger implementation of the
// domain.TokenRepository
func NewTokenRepositoryImpl(store *badgerhold.Store) domain.TokenRepository {
	return &tokenRepositoryImpl{store}
}

func (r *tokenRepositoryImpl) AddToken(
	_ context.Context, token *domain.Token,
) error {
	if err := r.store.Insert(token.ID, *token); err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrTokenAlreadyExists
		}
		return err
	}
	return nil
}

func (r *tokenRepositoryImpl) GetToken(
	_ context.Context, id string,
) (*domain.Token, error) {
	var token domain.Token
	if err := r.store.Get(id, &token); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepositoryImpl) ListTokens(
	_ context.Context,
) ([]domain.Token, error) {
	var tokens []domain.Token
	query := (&badgerhold.Query{}).SortBy("CreatedAt", "ID")
	if err := r.store.Find(&tokens, query); err != nil {
		return nil, err
	}
	return tokens, nil
}
