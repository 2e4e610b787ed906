package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ArthurDelaporte/NewsPortal-Back/internal/logs"
)

var (
	mu     sync.RWMutex
	client *redis.Client
)

// Connect active le cache Redis. Sans appel, le cache est désactivé.
func Connect(ctx context.Context, addr, password string) error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("connexion Redis %s: %w", addr, err)
	}
	SetClient(rdb)
	logs.LogJSON("INFO", "Redis connected", map[string]interface{}{"addr": addr})
	return nil
}

func SetClient(rdb *redis.Client) {
	mu.Lock()
	client = rdb
	mu.Unlock()
}

func current() *redis.Client {
	mu.RLock()
	defer mu.RUnlock()
	return client
}

func Close() {
	mu.Lock()
	defer mu.Unlock()
	if client != nil {
		_ = client.Close()
		client = nil
	}
}

// GetOrLoad lit key dans Redis ou appelle load puis stocke le résultat.
// Une erreur Redis ne fait jamais échouer l'appel : on retombe sur load.
func GetOrLoad[T any](ctx context.Context, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	rdb := current()
	if rdb == nil {
		return load(ctx)
	}

	raw, err := rdb.Get(ctx, key).Bytes()
	if err == nil {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		logs.LogJSON("WARN", "Cache read failed", map[string]interface{}{
			"error": err.Error(),
			"key":   key,
		})
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	payload, err := json.Marshal(value)
	if err == nil {
		err = rdb.Set(ctx, key, payload, ttl).Err()
	}
	if err != nil {
		logs.LogJSON("WARN", "Cache write failed", map[string]interface{}{
			"error": err.Error(),
			"key":   key,
		})
	}
	return value, nil
}

func Invalidate(ctx context.Context, keys ...string) {
	rdb := current()
	if rdb == nil || len(keys) == 0 {
		return
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		logs.LogJSON("WARN", "Cache invalidation failed", map[string]interface{}{
			"error": err.Error(),
			"keys":  keys,
		})
	}
}
