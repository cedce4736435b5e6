package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/go-otp-registration/internal/domain/entity"
	"github.com/oksasatya/go-otp-registration/internal/domain/repository"
)

// UserRepository keeps users in process memory. Uniqueness of email is
// enforced under the same lock as the insert, mirroring the database index.
type UserRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]entity.User
	byEmail map[string]int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[int64]entity.User),
		byEmail: make(map[string]int64),
	}
}

func (r *UserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *UserRepository) Save(_ context.Context, u entity.User) (entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if u.ID == 0 {
		if _, taken := r.byEmail[u.Email]; taken {
			return entity.User{}, repository.ErrDuplicateEmail
		}
		r.nextID++
		u.ID = r.nextID
		u.CreatedAt = now
		u.UpdatedAt = now
		r.byID[u.ID] = u
		r.byEmail[u.Email] = u.ID
		return u, nil
	}

	prev, ok := r.byID[u.ID]
	if !ok {
		return entity.User{}, repository.ErrUserNotFound
	}
	if prev.Email != u.Email {
		if _, taken := r.byEmail[u.Email]; taken {
			return entity.User{}, repository.ErrDuplicateEmail
		}
		delete(r.byEmail, prev.Email)
		r.byEmail[u.Email] = u.ID
	}
	u.CreatedAt = prev.CreatedAt
	u.UpdatedAt = now
	r.byID[u.ID] = u
	return u, nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return entity.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return entity.User{}, repository.ErrUserNotFound
	}
	return r.byID[id], nil
}

// Count returns the number of stored users.
func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

var _ repository.UserRepository = (*UserRepository)(nil)
