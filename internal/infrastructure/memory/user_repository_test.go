package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-otp-registration/internal/domain/entity"
	"github.com/oksasatya/go-otp-registration/internal/domain/repository"
)

func TestSaveAssignsIDAndRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	u, err := repo.Save(ctx, entity.NewPendingUser("Ada", "L", "a@b.com", "h", "1234567890", "123456"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	exists, err := repo.ExistsByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.Save(ctx, entity.NewPendingUser("Eve", "L", "a@b.com", "h", "1234567890", "654321"))
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	assert.Equal(t, 1, repo.Count())
}

func TestSaveUpdatesExisting(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	u, err := repo.Save(ctx, entity.NewPendingUser("Ada", "L", "a@b.com", "h", "1234567890", "123456"))
	require.NoError(t, err)

	u, err = u.WithOTP("999999")
	require.NoError(t, err)
	_, err = repo.Save(ctx, u)
	require.NoError(t, err)

	got, err := repo.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "999999", got.OTP)
	assert.Equal(t, 1, repo.Count())

	_, err = repo.Save(ctx, entity.User{ID: 42, Email: "x@y.z"})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestGetMissing(t *testing.T) {
	repo := NewUserRepository()
	_, err := repo.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	_, err = repo.GetByEmail(context.Background(), "none@x.io")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestConcurrentInsertsKeepEmailUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	var wg sync.WaitGroup
	var ok, dup int32
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Save(ctx, entity.NewPendingUser("A", "B", "race@x.io", "h", "1234567890", "123456"))
			if err == nil {
				atomic.AddInt32(&ok, 1)
			} else if assert.ErrorIs(t, err, repository.ErrDuplicateEmail) {
				atomic.AddInt32(&dup, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok)
	assert.Equal(t, int32(49), dup)
	assert.Equal(t, 1, repo.Count())
}
