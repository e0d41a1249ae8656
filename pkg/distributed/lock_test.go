package distributed

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestNewLock_TokensAreUnique(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	a := NewLock(client, "midway:lock:test", time.Second)
	b := NewLock(client, "midway:lock:test", time.Second)

	assert.Len(t, a.token, 32)
	assert.NotEqual(t, a.token, b.token)
}

func TestLock_UnreachableRedisIsAnError(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	l := NewLock(client, "midway:lock:test", time.Second)

	ok, err := l.TryAcquire(context.Background())
	assert.False(t, ok)
	assert.Error(t, err)

	called := false
	err = WithLock(context.Background(), l, 0, func(context.Context) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}
