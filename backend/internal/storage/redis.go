package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisClient обертка над redis.Client
type RedisClient struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisClient создает нового Redis клиента
func NewRedisClient(addr, password string, db int, logger *zap.Logger) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,

		// Настройки пула
		PoolSize:     10,
		MinIdleConns: 2,
		PoolTimeout:  30 * time.Second,
		IdleTimeout:  5 * time.Minute,

		// Таймауты
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Проверка соединения
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established",
		zap.String("addr", addr),
		zap.Int("db", db))

	return NewRedisClientFromClient(client, logger), nil
}

// NewRedisClientFromClient оборачивает готовый клиент
func NewRedisClientFromClient(client *redis.Client, logger *zap.Logger) *RedisClient {
	return &RedisClient{
		client: client,
		logger: logger,
	}
}

// Close закрывает соединение с Redis
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Publish публикует сообщение в канал
func (r *RedisClient) Publish(ctx context.Context, channel string, message interface{}) error {
	return r.client.Publish(ctx, channel, message).Err()
}

// PushCapped добавляет значение в начало списка и обрезает его до limit элементов
func (r *RedisClient) PushCapped(ctx context.Context, key string, value interface{}, limit int64) error {
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, value)
	pipe.LTrim(ctx, key, 0, limit-1)
	_, err := pipe.Exec(ctx)
	return err
}

// LRange получает диапазон значений списка
func (r *RedisClient) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return r.client.LRange(ctx, key, start, stop).Result()
}

// HealthCheck проверка здоровья Redis
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// rateLimitScript увеличивает счетчик и ставит TTL одной командой.
// Ключ без TTL (после сбоя старой версии) получает окно заново.
var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {current, ttl}
`)

// RateLimit фиксированное окно: не больше limit событий на ключ за window.
// Возвращает разрешено ли событие и сколько ждать до сброса окна.
func (r *RedisClient) RateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	reply, err := rateLimitScript.Run(ctx, r.client, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		return false, 0, err
	}
	return parseRateLimitReply(reply, limit)
}

func parseRateLimitReply(reply interface{}, limit int) (bool, time.Duration, error) {
	values, ok := reply.([]interface{})
	if !ok || len(values) != 2 {
		return false, 0, fmt.Errorf("unexpected rate limit reply: %v", reply)
	}
	current, ok := values[0].(int64)
	if !ok {
		return false, 0, fmt.Errorf("unexpected rate limit counter: %v", values[0])
	}
	ttl, ok := values[1].(int64)
	if !ok {
		return false, 0, fmt.Errorf("unexpected rate limit ttl: %v", values[1])
	}

	if current > int64(limit) {
		return false, time.Duration(ttl) * time.Millisecond, nil
	}
	return true, 0, nil
}
