// Package cache cache de lectura del stock vigente sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/pkg/config"
)

const (
	maxRetries      = 3
	minRetryBackoff = 100 * time.Millisecond
	maxRetryBackoff = 300 * time.Millisecond
	dialTimeout     = 5 * time.Second
	readTimeout     = 3 * time.Second
	writeTimeout    = 3 * time.Second

	keyPrefix = "kardex:stock:"
)

var _ inventory.StockCache = (*StockCache)(nil)

// Connect abre el cliente y verifica la conexión con un PING.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            cfg.Addr,
		Password:        cfg.Password,
		DB:              cfg.DB,
		MaxRetries:      maxRetries,
		MinRetryBackoff: minRetryBackoff,
		MaxRetryBackoff: maxRetryBackoff,
		DialTimeout:     dialTimeout,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// StockCache guarda la foto de stock de cada producto como JSON con TTL.
// El motor la invalida después de cada commit; el TTL acota cualquier entrada huérfana.
type StockCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewStockCache construye la cache. ttl <= 0 guarda sin expiración.
func NewStockCache(client redis.Cmdable, ttl time.Duration) *StockCache {
	if ttl < 0 {
		ttl = 0
	}
	return &StockCache{client: client, ttl: ttl}
}

// Key clave Redis del producto.
func Key(productID string) string { return keyPrefix + productID }

// Get devuelve (nil, false, nil) si no hay entrada.
func (c *StockCache) Get(ctx context.Context, productID string) (*inventory.StockSnapshot, bool, error) {
	raw, err := c.client.Get(ctx, Key(productID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", productID, err)
	}
	var snap inventory.StockSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, false, fmt.Errorf("decode stock %s: %w", productID, err)
	}
	return &snap, true, nil
}

func (c *StockCache) Set(ctx context.Context, snapshot *inventory.StockSnapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode stock %s: %w", snapshot.ProductID, err)
	}
	if err := c.client.Set(ctx, Key(snapshot.ProductID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", snapshot.ProductID, err)
	}
	return nil
}

func (c *StockCache) Invalidate(ctx context.Context, productIDs ...string) error {
	if len(productIDs) == 0 {
		return nil
	}
	keys := make([]string, len(productIDs))
	for i, id := range productIDs {
		keys[i] = Key(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
