package inmemory

import (
	"github.com/tdex-network/token-launcher/internal/core/domain"
	"github.com/tdex-network/token-launcher/internal/core/ports"
)

type repoManager struct {
	intentRepository domain.IntentRepository
	tokenRepository  domain.TokenRepository
	guestRepository  domain.GuestRepository
}

func NewRepoManager() ports.RepoManager {
	return &repoManager{
		intentRepository: NewIntentRepositoryImpl(),
		tokenRepository:  NewTokenRepositoryImpl(),
		guestRepository:  NewGuestRepositoryImpl(),
	}
}

func (d *repoManager) IntentRepository() domain.IntentRepository {
	return d.intentRepository
}

func (d *repoManager) TokenRepository() domain.TokenRepository {
	return d.tokenRepository
}

func (d *repoManager) GuestRepository() domain.GuestRepository {
	return d.guestRepository
}

func (d *repoManager) Close() {}
