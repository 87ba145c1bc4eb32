package cart

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const defaultNamespace = "connectfarma:cart"

// RedisStore keeps each actor's cart in a hash keyed by product id. Every write refreshes
// the TTL, so a cart lives as long as the session that edits it. Concurrent writers for
// the same actor are last-write-wins per product.
type RedisStore struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
	logger    *zap.Logger
}

type RedisStoreOptions struct {
	Namespace string
	TTL       time.Duration
	Logger    *zap.Logger
}

func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func NewRedisStore(client *redis.Client, opts RedisStoreOptions) *RedisStore {
	if opts.Namespace == "" {
		opts.Namespace = defaultNamespace
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &RedisStore{client: client, namespace: opts.Namespace, ttl: opts.TTL, logger: opts.Logger}
}

func (s *RedisStore) key(actorID string) string {
	return s.namespace + ":" + actorID
}

func (s *RedisStore) Get(ctx context.Context, actorID string) (Cart, error) {
	raw, err := s.client.HGetAll(ctx, s.key(actorID)).Result()
	if err != nil {
		return Cart{}, fmt.Errorf("load cart: %w", err)
	}
	items := make(map[string]int, len(raw))
	for id, v := range raw {
		qty, err := strconv.Atoi(v)
		if err != nil {
			s.logger.Warn("Dropping malformed cart entry",
				zap.String("actor_id", actorID),
				zap.String("product_id", id),
				zap.String("value", v))
			continue
		}
		items[id] = qty
	}
	return New(items), nil
}

// Set stores qty for productID (qty <= 0 removes it) and returns the cart's total item count.
func (s *RedisStore) Set(ctx context.Context, actorID, productID string, qty int) (int, error) {
	key := s.key(actorID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if qty > 0 {
			pipe.HSet(ctx, key, productID, qty)
		} else {
			pipe.HDel(ctx, key, productID)
		}
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("update cart: %w", err)
	}
	c, err := s.Get(ctx, actorID)
	if err != nil {
		return 0, err
	}
	return c.TotalItems(), nil
}

func (s *RedisStore) Remove(ctx context.Context, actorID string, productIDs ...string) error {
	if len(productIDs) == 0 {
		return nil
	}
	if err := s.client.HDel(ctx, s.key(actorID), productIDs...).Err(); err != nil {
		return fmt.Errorf("remove cart entries: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, actorID string) error {
	if err := s.client.Del(ctx, s.key(actorID)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
