package redislock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-otp-registration/internal/domain/repository"
	"github.com/oksasatya/go-otp-registration/pkg/helpers"
)

// only the holder's token may delete the key
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

type RegistrationLock struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRegistrationLock(rdb *redis.Client, ttl time.Duration) *RegistrationLock {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RegistrationLock{rdb: rdb, ttl: ttl}
}

// Acquire sets the lock key with NX and a TTL so a crashed holder cannot
// block the email forever.
func (l *RegistrationLock) Acquire(ctx context.Context, email string) (func(), error) {
	key := helpers.KeyRegistrationLock(email)
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repository.ErrLockHeld
	}
	return func() {
		c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(c, l.rdb, []string{key}, token).Err()
	}, nil
}

var _ repository.RegistrationLock = (*RegistrationLock)(nil)
