package domain

import "errors"

var (
	// ErrIntentUnknownKind is returned when creating an intent of unsupported kind
	ErrIntentUnknownKind = errors.New("unknown intent kind")
	// ErrIntentMissingTarget ...
	ErrIntentMissingTarget = errors.New("intent target must not be empty")
	// ErrIntentMissingSteps ...
	ErrIntentMissingSteps = errors.New("intent must have at least one step")
	// ErrIntentNotPending is returned when trying to progress an intent that
	// is already completed, failed or resolved
	ErrIntentNotPending = errors.New("intent is not pending")
	// ErrIntentStepOutOfOrder is returned when completing a step that is not
	// the next one to be executed
	ErrIntentStepOutOfOrder = errors.New("intent step completed out of order")
	// ErrIntentNotResolvable is returned when resolving a completed or already
	// resolved intent
	ErrIntentNotResolvable = errors.New("only failed or pending intents can be resolved")
	// ErrIntentNotFound ...
	ErrIntentNotFound = errors.New("intent not found")

	// ErrTokenInvalidName ...
	ErrTokenInvalidName = errors.New(
		"token name must be a valid account id segment (lowercase letters, digits, - and _)",
	)
	// ErrTokenMissingSymbol ...
	ErrTokenMissingSymbol = errors.New("token symbol must not be empty")
	// ErrTokenInvalidSupply ...
	ErrTokenInvalidSupply = errors.New("token total supply must be a positive integer")
	// ErrTokenMissingOwner ...
	ErrTokenMissingOwner = errors.New("token owner must not be empty")
	// ErrTokenNotFound ...
	ErrTokenNotFound = errors.New("token not found")
	// ErrTokenAlreadyExists ...
	ErrTokenAlreadyExists = errors.New("account already exists")

	// ErrGuestInvalidAccountID is returned when the guest account is not a
	// direct sub-account of the token
	ErrGuestInvalidAccountID = errors.New("guest account id must be <name>.<token id>")
	// ErrGuestMissingPublicKey ...
	ErrGuestMissingPublicKey = errors.New("guest public key must not be empty")
	// ErrGuestMissingToken ...
	ErrGuestMissingToken = errors.New("guest token id must not be empty")
	// ErrGuestNotFound ...
	ErrGuestNotFound = errors.New("guest not found")
	// ErrGuestAlreadyExists ...
	ErrGuestAlreadyExists = errors.New("guest already exists")
	// ErrGuestNotActive is returned when changing status of an upgraded or
	// removed guest
	ErrGuestNotActive = errors.New("guest is not active")
)
