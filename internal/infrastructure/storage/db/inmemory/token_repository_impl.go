package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/tdex-network/token-launcher/internal/core/domain"
)

type tokenRepositoryImpl struct {
	tokens map[string]domain.Token

	lock *sync.RWMutex
}

// NewTokenRepositoryImpl returns a new empty in-memory domain.TokenRepository
func NewTokenRepositoryImpl() domain.TokenRepository {
	return &tokenRepositoryImpl{
		tokens: map[string]domain.Token{},
		lock:   &sync.RWMutex{},
	}
}

func (r *tokenRepositoryImpl) AddToken(
	_ context.Context, token *domain.Token,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.tokens[token.ID]; ok {
		return domain.ErrTokenAlreadyExists
	}
	r.tokens[token.ID] = *token
	return nil
}

func (r *tokenRepositoryImpl) GetToken(
	_ context.Context, id string,
) (*domain.Token, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	token, ok := r.tokens[id]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	return &token, nil
}

func (r *tokenRepositoryImpl) ListTokens(
	_ context.Context,
) ([]domain.Token, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	tokens := make([]domain.Token, 0, len(r.tokens))
	for _, t := range r.tokens {
		tokens = append(tokens, t)
	}
	sort.SliceStable(tokens, func(i, j int) bool {
		if tokens[i].CreatedAt == tokens[j].CreatedAt {
			return tokens[i].ID < tokens[j].ID
		}
		return tokens[i].CreatedAt < tokens[j].CreatedAt
	})
	return tokens, nil
}
