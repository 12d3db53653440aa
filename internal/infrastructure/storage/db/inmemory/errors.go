package inmemory

import "errors"

var (
	// ErrIntentAlreadyExists is thrown when adding an intent with an id
	// already in use
	ErrIntentAlreadyExists = errors.New("intent already exists")
)
