package token

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// credentialKey is the fixed key the credential lives under, carried over
// from the localStorage key of the browser front end.
const credentialKey = "authToken"

// RedisStore keeps the credential in Redis so a console restart (or a
// container reschedule) does not log the operator out. No TTL is set; expiry
// is the token's own business.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an already-connected client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Load fetches the credential from Redis.
func (s *RedisStore) Load(ctx context.Context) (string, error) {
	v, err := s.client.Get(ctx, credentialKey).Result()
	if err == redis.Nil {
		return "", ErrNoCredential
	}
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", ErrNoCredential
	}
	return v, nil
}

// Save stores the credential without expiry.
func (s *RedisStore) Save(ctx context.Context, value string) error {
	return s.client.Set(ctx, credentialKey, value, 0).Err()
}

// Clear deletes the credential key.
func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, credentialKey).Err()
}
