package repository

import (
	"context"
	"errors"
)

// ErrLockHeld means another registration for the same email is in flight.
var ErrLockHeld = errors.New("registration lock held")

// RegistrationLock serializes concurrent registrations of one email. It only
// narrows the race window; UserRepository.Save stays the authoritative guard.
type RegistrationLock interface {
	Acquire(ctx context.Context, email string) (release func(), err error)
}
