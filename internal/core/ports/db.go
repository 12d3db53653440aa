package ports

import (
	"github.com/tdex-network/token-launcher/internal/core/domain"
)

// RepoManager interface defines the methods for intents, tokens and guests.
type RepoManager interface {
	IntentRepository() domain.IntentRepository
	TokenRepository() domain.TokenRepository
	GuestRepository() domain.GuestRepository

	Close()
}
