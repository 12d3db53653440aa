package guestwallet

import "errors"

var (
	// ErrNullPlainText ...
	ErrNullPlainText = errors.New("plain text must not be null")
	// ErrNullCypherText ...
	ErrNullCypherText = errors.New("cypher text must not be null")
	// ErrInvalidCypherText ...
	ErrInvalidCypherText = errors.New("cypher text is not a valid encrypted payload")
	// ErrNullPassword ...
	ErrNullPassword = errors.New("password must not be null")
	// ErrInvalidPassword is returned when a seed phrase can't be decrypted
	ErrInvalidPassword = errors.New("wrong password")

	// ErrInvalidUsername ...
	ErrInvalidUsername = errors.New(
		"username must contain only lowercase letters, digits, - and _",
	)
	// ErrGuestNotFound is returned for accounts not in the cache
	ErrGuestNotFound = errors.New("guest not found in cache")
	// ErrGuestAlreadyCached ...
	ErrGuestAlreadyCached = errors.New("guest is already in cache")
	// ErrAccountTaken is returned when the guest account already exists on
	// the ledger
	ErrAccountTaken = errors.New("account id is already taken")
	// ErrGuestStale is returned when operating on an entry that the ledger
	// no longer recognizes
	ErrGuestStale = errors.New("guest is stale, reload the cache")
	// ErrGuestUpgraded is returned when signing as guest with an entry that
	// now holds the access key of an upgraded account
	ErrGuestUpgraded = errors.New("guest is already upgraded")
	// ErrUpgradeNotConfirmed is returned when the user did not acknowledge
	// custody of the full access seed phrase
	ErrUpgradeNotConfirmed = errors.New("upgrade not confirmed")
)
