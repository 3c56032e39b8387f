package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
)

// listPusher is the part of *redis.Client the queue needs.
type listPusher interface {
	LPush(ctx context.Context, key string, values ...any) *redis.IntCmd
}

// RedisQueue pushes JSON notices onto a Redis list for a downstream consumer.
type RedisQueue struct {
	client listPusher
	key    string
}

// NewRedisQueue creates a sink on client pushing to key.
func NewRedisQueue(client listPusher, key string) *RedisQueue {
	return &RedisQueue{
		client: client,
		key:    key,
	}
}

// Notify pushes the notice to the head of the list.
func (q *RedisQueue) Notify(ctx context.Context, notice *domain.Notice) error {
	body, err := encode(notice)
	if err != nil {
		return err
	}

	if err = q.client.LPush(ctx, q.key, body).Err(); err != nil {
		return fmt.Errorf("push notice to %s: %w", q.key, err)
	}

	return nil
}
