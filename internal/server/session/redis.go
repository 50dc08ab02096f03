package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	serr "github.com/IvanChernomyrdin/go-showcase/internal/shared/errors"
)

const redisKeyPrefix = "showcase:session:"

// RedisClient — методы go-redis, которые нужны хранилищу. Удобно подменять в тестах.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// redisNewClient создаёт клиента, тесты могут подменить.
var redisNewClient = func(opt *redis.Options) RedisClient {
	return redis.NewClient(opt)
}

// RedisStore хранит сессии в Redis, срок жизни задаётся TTL ключа.
type RedisStore struct {
	client RedisClient
	now    func() time.Time
}

// NewRedisStore подключается к Redis и проверяет соединение (Ping, 5 секунд).
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redisNewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient оборачивает уже готового клиента.
func NewRedisStoreWithClient(client RedisClient) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) Get(ctx context.Context, id string) ([]byte, error) {
	b, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, serr.ErrNotFound
		}
		return nil, serr.ErrInternal
	}
	return b, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, data []byte, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return s.Delete(ctx, id)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+id, data, ttl).Err(); err != nil {
		return serr.ErrInternal
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return serr.ErrInternal
	}
	return nil
}

// Close закрывает соединение с Redis.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
