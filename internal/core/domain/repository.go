package domain

import "context"

// IntentRepository is the abstraction for any kind of database intended to
// persist Intents.
type IntentRepository interface {
	// AddIntent adds a new intent to the repository.
	AddIntent(ctx context.Context, intent *Intent) error
	// GetIntent returns the intent with the given id.
	GetIntent(ctx context.Context, id string) (*Intent, error)
	// UpdateIntent updates the state of an intent. The closure function lets
	// to commit multiple changes to a certain intent in a transactional way.
	UpdateIntent(
		ctx context.Context,
		id string, updateFn func(i *Intent) (*Intent, error),
	) error
	// ListIntents returns the intents with the given status, or all of them
	// if status is empty, most recent first. A nil page means no pagination.
	ListIntents(
		ctx context.Context, status IntentStatus, page *Page,
	) ([]Intent, error)
	// ListIntentsForTarget returns all intents related to the given target,
	// most recent first.
	ListIntentsForTarget(ctx context.Context, target string) ([]Intent, error)
}

// TokenRepository is the abstraction for any kind of database intended to
// persist launched Tokens.
type TokenRepository interface {
	AddToken(ctx context.Context, token *Token) error
	GetToken(ctx context.Context, id string) (*Token, error)
	ListTokens(ctx context.Context) ([]Token, error)
}

// GuestRepository is the abstraction for any kind of database intended to
// persist the local mirror of the guest registries.
type GuestRepository interface {
	// AddGuest adds a new guest, fails if one with the same token and public
	// key already exists.
	AddGuest(ctx context.Context, guest *Guest) error
	GetGuest(ctx context.Context, tokenID, publicKey string) (*Guest, error)
	// UpdateGuest updates a guest in a transactional way.
	UpdateGuest(
		ctx context.Context, tokenID, publicKey string,
		updateFn func(g *Guest) (*Guest, error),
	) error
	// ListGuests returns the guests of the given token with the given
	// status. Empty values mean any.
	ListGuests(
		ctx context.Context, tokenID string, status GuestStatus,
	) ([]Guest, error)
}
