package lock

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

// unreachableClient клиент к порту, на котором никто не слушает
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRedisLocker_ErrorsWrapErrLock(t *testing.T) {
	client := unreachableClient()
	defer client.Close()
	l := NewRedisLocker(client)

	_, ok, err := l.Acquire(context.Background(), "test:lock", time.Second)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrLock)

	err = l.Release(context.Background(), "test:lock", "token")
	assert.ErrorIs(t, err, ErrLock)
}

func TestNewRedisClient_PingFails(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "127.0.0.1:1", "", 0)
	assert.ErrorIs(t, err, ErrLock)
}
