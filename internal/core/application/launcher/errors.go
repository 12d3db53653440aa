package launcher

import "errors"

var (
	// ErrMissingTokenID is returned when a request names no token and no
	// default token is configured.
	ErrMissingTokenID = errors.New("missing token id")
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be a positive integer")
	// ErrMissingReceiver ...
	ErrMissingReceiver = errors.New("missing receiver account id")
	// ErrMissingAccount ...
	ErrMissingAccount = errors.New("missing account id")
)
