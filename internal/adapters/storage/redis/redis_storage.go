// Package redis disponibiliza a implementação do storage baseada em Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/domain"
	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/ports"
)

const (
	keyPrefix   = "ratelimit:"
	maxAttempts = 10

	// A janela só expira estritamente depois de ResetAt; a chave vive 1ms a mais
	// para que uma requisição exatamente em ResetAt ainda conte na janela antiga.
	expiryGrace = time.Millisecond

	fieldCount   = "count"
	fieldResetAt = "reset_at"
)

var ErrContention = errors.New("redis: too many concurrent updates for key")

// Storage guarda cada entrada num hash com expiração no fim da janela, então
// não precisa de varredura.
type Storage struct {
	client *redis.Client
}

var _ ports.Storage = (*Storage)(nil)

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config) (*Storage, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Storage{client: client}, nil
}

func (s *Storage) Close() error {
	return s.client.Close()
}

// Update executa leitura, decisão e escrita sob WATCH/MULTI, repetindo quando
// outra instância altera a mesma chave no meio da transação.
func (s *Storage) Update(ctx context.Context, key string, fn ports.UpdateFunc) (domain.RateLimitEntry, error) {
	redisKey := keyPrefix + key

	var result domain.RateLimitEntry
	txf := func(tx *redis.Tx) error {
		entry, found, err := readEntry(ctx, tx, redisKey)
		if err != nil {
			return err
		}

		next, write := fn(entry, found)
		if !write {
			result = entry
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, redisKey, fieldCount, next.Count, fieldResetAt, next.ResetAt.UnixMilli())
			pipe.PExpireAt(ctx, redisKey, next.ResetAt.Add(expiryGrace))
			return nil
		})
		if err != nil {
			return err
		}
		result = next
		return nil
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, redisKey)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return domain.RateLimitEntry{}, err
	}

	return domain.RateLimitEntry{}, ErrContention
}

func readEntry(ctx context.Context, tx *redis.Tx, key string) (domain.RateLimitEntry, bool, error) {
	values, err := tx.HMGet(ctx, key, fieldCount, fieldResetAt).Result()
	if err != nil {
		return domain.RateLimitEntry{}, false, err
	}
	if len(values) != 2 || values[0] == nil || values[1] == nil {
		return domain.RateLimitEntry{}, false, nil
	}

	count, err := strconv.Atoi(fmt.Sprint(values[0]))
	if err != nil {
		return domain.RateLimitEntry{}, false, fmt.Errorf("invalid count for %s: %w", key, err)
	}
	resetAtMs, err := strconv.ParseInt(fmt.Sprint(values[1]), 10, 64)
	if err != nil {
		return domain.RateLimitEntry{}, false, fmt.Errorf("invalid reset_at for %s: %w", key, err)
	}

	return domain.RateLimitEntry{Count: count, ResetAt: time.UnixMilli(resetAtMs)}, true, nil
}
