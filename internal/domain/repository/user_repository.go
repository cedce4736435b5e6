package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-otp-registration/internal/domain/entity"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned by Save when the store rejects a second
	// record for an email. Stores must enforce this atomically.
	ErrDuplicateEmail = errors.New("email already stored")
)

// UserRepository defines the interface for user-related storage operations.
// Emails are compared exactly; callers normalize them first.
type UserRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Save inserts u when u.ID is zero and updates it otherwise, returning the
	// stored record with server-assigned fields set.
	Save(ctx context.Context, u entity.User) (entity.User, error)
	GetByID(ctx context.Context, id int64) (entity.User, error)
	GetByEmail(ctx context.Context, email string) (entity.User, error)
}
