package otp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pwreset:"

// RedisStore keeps each record under pwreset:<email> with a TTL equal
// to the code's remaining validity, so expired codes are evicted by
// redis itself instead of piling up.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, email string, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	return s.client.Set(ctx, keyPrefix+email, payload, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, email string) (Record, error) {
	payload, err := s.client.Get(ctx, keyPrefix+email).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}

	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, keyPrefix+email).Err()
}

func (s *RedisStore) IncrementAttempts(ctx context.Context, email string) error {
	rec, err := s.Get(ctx, email)
	if err != nil {
		return err
	}
	rec.Attempts++

	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+email, payload, redis.KeepTTL).Err()
}
