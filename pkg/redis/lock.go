package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockNotAcquired = errors.New("payment lock not acquired")

// Locker serializes webhook deliveries for the same payment id. Concurrent
// notifications for different payments proceed independently.
type Locker interface {
	WithPaymentLock(ctx context.Context, paymentID uuid.UUID, fn func(ctx context.Context) error) error
}

type redisPaymentLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPaymentLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisPaymentLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisPaymentLocker) WithPaymentLock(ctx context.Context, paymentID uuid.UUID, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:payment:%s", paymentID.String())
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire payment lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

// unlockScript releases the lock only when it is still held by this token.
var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisPaymentLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release payment lock: %w", err)
	}
	return nil
}

// NoopLocker runs the critical section without coordination. Used in tests
// and single-instance deployments without redis.
type NoopLocker struct{}

func (NoopLocker) WithPaymentLock(ctx context.Context, _ uuid.UUID, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
