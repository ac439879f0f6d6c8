// Package session keeps short-lived per-session chat context in Redis
// so consecutive consultations stay conversational. Context expires
// with the session TTL; the durable record lives in the history store.
package session

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// History holds the chat messages of one session.
type History struct {
	Messages []*schema.Message `json:"messages"`
}

// Repository is the chat context contract.
type Repository interface {
	Load(ctx context.Context, sessionID string) (*History, error)
	AddMessage(ctx context.Context, sessionID string, message *schema.Message) error
}

// RedisRepository implements Repository on go-redis.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRepository connects using REDIS_URL and verifies the
// connection with a ping.
func NewRedisRepository(ctx context.Context, ttl time.Duration) (*RedisRepository, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL environment variable is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRepository{client: client, ttl: ttl}, nil
}

// NewRedisRepositoryWithClient wraps an existing client (tests).
func NewRedisRepositoryWithClient(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

// Client exposes the underlying connection so other components can
// share it instead of opening a second one.
func (r *RedisRepository) Client() *redis.Client { return r.client }

func (r *RedisRepository) Load(ctx context.Context, sessionID string) (*History, error) {
	key := keyPrefix + sessionID
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return &History{Messages: []*schema.Message{}}, nil
		}
		return nil, fmt.Errorf("failed to load session history: %w", err)
	}

	var history History
	if err := sonic.UnmarshalString(data, &history); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session history: %w", err)
	}

	// Reading keeps the session alive.
	r.client.Expire(ctx, key, r.ttl)
	return &history, nil
}

func (r *RedisRepository) AddMessage(ctx context.Context, sessionID string, message *schema.Message) error {
	history, err := r.Load(ctx, sessionID)
	if err != nil {
		return err
	}

	history.Messages = append(history.Messages, message)

	data, err := sonic.MarshalString(history)
	if err != nil {
		return fmt.Errorf("failed to marshal session history: %w", err)
	}
	return r.client.Set(ctx, keyPrefix+sessionID, data, r.ttl).Err()
}
