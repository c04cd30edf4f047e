package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// unlockScript deletes the key only while it still holds our token, so a lock
// that expired and was taken by another instance is never released by us.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is a single-holder lease across instances.
// Key format: lock:<name>
type Lock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewLock creates a Lock named name whose lease expires after ttl.
func NewLock(client *redis.Client, name string, ttl time.Duration) *Lock {
	return &Lock{client: client, key: lockKey(name), ttl: ttl}
}

// TryLock acquires the lease without blocking. It returns the token to pass
// to Unlock, or ok=false when another holder owns it.
func (l *Lock) TryLock(ctx context.Context) (token string, ok bool, err error) {
	token, err = newToken()
	if err != nil {
		return "", false, err
	}
	ok, err = l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("acquire %s: %w", l.key, err)
	}
	return token, ok, nil
}

// Unlock releases the lease if token still owns it.
func (l *Lock) Unlock(ctx context.Context, token string) error {
	if err := unlockScript.Run(ctx, l.client, []string{l.key}, token).Err(); err != nil {
		return fmt.Errorf("release %s: %w", l.key, err)
	}
	return nil
}

func lockKey(name string) string {
	return "lock:" + name
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("lock token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
