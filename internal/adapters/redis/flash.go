package redisad

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"hbnb_web/internal/adapters/observability"
)

const keyPrefix = "hbnb:flash:"

// FlashStore keeps one-shot messages between a POST and the page it redirects to.
type FlashStore struct {
	c   *redis.Client
	ttl time.Duration
}

func New(addr, pass string, db int, ttl time.Duration) *FlashStore {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), ttl)
}

func NewWithClient(c *redis.Client, ttl time.Duration) *FlashStore {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &FlashStore{c: c, ttl: ttl}
}

func (r *FlashStore) Ping(ctx context.Context) error {
	return r.c.Ping(ctx).Err()
}

func (r *FlashStore) Put(ctx context.Context, msg string) (string, error) {
	id := uuid.NewString()
	if err := r.c.Set(ctx, keyPrefix+id, msg, r.ttl).Err(); err != nil {
		return "", err
	}
	observability.ObserveFlash("redis", "put")
	return id, nil
}

// Take reads and deletes in one step, so a message is shown at most once.
func (r *FlashStore) Take(ctx context.Context, id string) (string, bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", false, nil
	}
	v, err := r.c.GetDel(ctx, keyPrefix+id).Result()
	if err == redis.Nil {
		observability.ObserveFlash("redis", "miss")
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	observability.ObserveFlash("redis", "take")
	return v, true, nil
}

func (r *FlashStore) Close() error { return r.c.Close() }
