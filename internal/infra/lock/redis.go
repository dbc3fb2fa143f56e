package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var (
	// ErrLock возвращается при ошибке обращения к Redis
	ErrLock = errors.New("lock: redis error")

	// ErrNotOwner возвращается при попытке снять чужую или истекшую блокировку
	ErrNotOwner = errors.New("lock: lock is not held by this token")
)

// releaseScript удаляет ключ, только если в нем лежит наш токен
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker блокировка на SET NX PX с токеном владельца
type RedisLocker struct {
	client redis.UniversalClient
}

func NewRedisLocker(client redis.UniversalClient) *RedisLocker {
	return &RedisLocker{client: client}
}

// Acquire пытается занять key на ttl. ok=false, если ключ уже занят.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("%w: acquire %s: %v", ErrLock, key, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release снимает блокировку, если она все еще принадлежит token
func (l *RedisLocker) Release(ctx context.Context, key, token string) error {
	deleted, err := releaseScript.Run(ctx, l.client, []string{key}, token).Int()
	if err != nil {
		return fmt.Errorf("%w: release %s: %v", ErrLock, key, err)
	}
	if deleted == 0 {
		return fmt.Errorf("%w: key=%s", ErrNotOwner, key)
	}
	return nil
}

// NewRedisClient создает клиента и проверяет соединение
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrLock, addr, err)
	}
	return client, nil
}
