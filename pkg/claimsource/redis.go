package claimsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig describes the connection to a Redis server holding claim values.
type RedisConfig struct {
	ConnectionURL  string        `env:"CLAIMS_REDIS_URL,required" envDefault:"redis://localhost:6379/0"` // ConnectionURL should be in the format "redis://:password@localhost:6379/0"
	RetryAttempts  int           `env:"CLAIMS_REDIS_RETRY_ATTEMPTS" envDefault:"3"`                      // RetryAttempts is the number of connection attempts before giving up.
	RetryInterval  time.Duration `env:"CLAIMS_REDIS_RETRY_INTERVAL" envDefault:"5s"`                     // RetryInterval is the wait between attempts.
	ConnectTimeout time.Duration `env:"CLAIMS_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`                   // ConnectTimeout bounds the whole connection phase.
}

// ConnectRedis establishes a Redis connection with retry, verifying it with a
// ping before handing it out.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrParseRedisURL, err)
	}

	for range cfg.RetryAttempts {
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, ErrRedisNotReady
}

// RedisSource implements Source on top of a Redis client. Values are stored
// as JSON under "claim:<claim key>:<user id>", optionally prefixed and with
// an optional TTL.
type RedisSource struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisSourceOption configures a RedisSource.
type RedisSourceOption func(*RedisSource)

// WithKeyPrefix namespaces all keys written by the source, e.g. per tenant.
func WithKeyPrefix(prefix string) RedisSourceOption {
	return func(s *RedisSource) {
		s.prefix = prefix
	}
}

// WithTTL expires stored values after d. Zero (the default) keeps them until
// deleted.
func WithTTL(d time.Duration) RedisSourceOption {
	return func(s *RedisSource) {
		s.ttl = d
	}
}

// NewRedisSource creates a Source backed by the given Redis client.
func NewRedisSource(client *redis.Client, opts ...RedisSourceOption) *RedisSource {
	s := &RedisSource{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the stored value for (claimKey, userID) or ErrNotFound.
func (s *RedisSource) Get(ctx context.Context, claimKey, userID string) (any, error) {
	if err := validateKey(claimKey, userID); err != nil {
		return nil, err
	}

	raw, err := s.client.Get(ctx, s.key(claimKey, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, errors.Join(ErrDecodeValue, err)
	}
	return value, nil
}

// Set stores the value for (claimKey, userID) as JSON.
func (s *RedisSource) Set(ctx context.Context, claimKey, userID string, value any) error {
	if err := validateKey(claimKey, userID); err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Join(ErrEncodeValue, err)
	}
	return s.client.Set(ctx, s.key(claimKey, userID), raw, s.ttl).Err()
}

// Delete removes the value for (claimKey, userID).
func (s *RedisSource) Delete(ctx context.Context, claimKey, userID string) error {
	if err := validateKey(claimKey, userID); err != nil {
		return err
	}
	return s.client.Del(ctx, s.key(claimKey, userID)).Err()
}

func (s *RedisSource) key(claimKey, userID string) string {
	return fmt.Sprintf("%sclaim:%s:%s", s.prefix, claimKey, userID)
}
