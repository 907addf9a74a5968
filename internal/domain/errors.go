package domain

import "errors"

var (
	// ErrNotFound is returned by stores when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPositionNotFound is returned on a sell of a symbol the user has
	// never held.
	ErrPositionNotFound = errors.New("position not found")

	// ErrInsufficientQuantity is returned when a sell asks for more shares
	// than the position holds.
	ErrInsufficientQuantity = errors.New("insufficient quantity")

	// ErrUserExists is returned on signup with an already-taken username.
	ErrUserExists = errors.New("username already exists")

	// ErrInvalidCredentials is returned on login with an unknown username
	// or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidTrade is returned when a trade fails basic validation
	// (empty symbol, non-positive quantity, negative price).
	ErrInvalidTrade = errors.New("invalid trade")

	// ErrLockHeld is returned when a distributed lock is already held by
	// another party.
	ErrLockHeld = errors.New("lock already held")
)
