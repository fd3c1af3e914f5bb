package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xerpia/erp-console/internal/core/domain"
)

const redisTimeout = 5 * time.Second

// RedisConfig captures the settings for establishing a Redis connection.
type RedisConfig struct {
	Addr   string
	DB     int
	Prefix string
}

// RedisStore keeps the credential under three keys sharing a common prefix.
// Used when the console runs on shared infrastructure where a local
// credentials file is undesirable.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore initialises a Redis client and validates connectivity with
// a ping.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "xerpia"
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error { return s.client.Close() }

// Save replaces all three entries in a single pipeline round trip.
func (s *RedisStore) Save(cred domain.StoredCredential) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	userJSON := ""
	if cred.User != nil {
		b, err := json.Marshal(cred.User)
		if err != nil {
			return err
		}
		userJSON = string(b)
	}

	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.key("access_token"), cred.AccessToken, 0)
		p.Set(ctx, s.key("refresh_token"), cred.RefreshToken, 0)
		p.Set(ctx, s.key("user"), userJSON, 0)
		return nil
	})
	return err
}

// AccessToken returns the stored access token, or "" when absent.
func (s *RedisStore) AccessToken() string {
	return s.get("access_token")
}

// RefreshToken returns the stored refresh token, or "" when absent.
func (s *RedisStore) RefreshToken() string {
	return s.get("refresh_token")
}

// CachedUser returns the stored user profile, or nil when absent or
// undecodable.
func (s *RedisStore) CachedUser() *domain.User {
	raw := s.get("user")
	if raw == "" {
		return nil
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	return &u
}

// Clear removes all three keys in one DEL command.
func (s *RedisStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	return s.client.Del(ctx,
		s.key("access_token"),
		s.key("refresh_token"),
		s.key("user"),
	).Err()
}

func (s *RedisStore) get(field string) string {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	val, err := s.client.Get(ctx, s.key(field)).Result()
	if err != nil {
		return ""
	}
	return val
}

func (s *RedisStore) key(field string) string {
	return fmt.Sprintf("%s:credential:%s", s.prefix, field)
}
