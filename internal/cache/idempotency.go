package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

// NewClient connects to the Redis server at addr.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// IdempotencyStore maps Idempotency-Key values to the order they created.
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

func (s *IdempotencyStore) Key(key string) string {
	return fmt.Sprintf("idem:pedido:%s", key)
}

// Lookup returns the order id stored for key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (uint, bool, error) {
	val, err := s.rdb.Get(ctx, s.Key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrap(err, "get idempotency key")
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, errors.Wrapf(err, "parse idempotency value %q", val)
	}
	return uint(id), true, nil
}

// Remember stores orderID under key unless a value is already there.
func (s *IdempotencyStore) Remember(ctx context.Context, key string, orderID uint) error {
	if err := s.rdb.SetNX(ctx, s.Key(key), strconv.FormatUint(uint64(orderID), 10), s.ttl).Err(); err != nil {
		return errors.Wrap(err, "set idempotency key")
	}
	return nil
}
