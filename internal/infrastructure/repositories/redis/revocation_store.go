package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"midway/internal/core/ports"
	"midway/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// RedisRevocationStore lets Redis expire entries together with the tokens
// they block.
type RedisRevocationStore struct {
	client        *redis.Client
	prefix        string
	subjectPrefix string
}

func NewRedisRevocationStore(client *redis.Client) ports.RevocationStore {
	return &RedisRevocationStore{
		client:        client,
		prefix:        keyPrefix + "revoked:",
		subjectPrefix: keyPrefix + "revoked-subject:",
	}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(utils.Now())
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.prefix+tokenID, "1", ttl).Err(); err != nil {
		return unavailable("set", err)
	}
	return nil
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+tokenID).Result()
	if err != nil {
		return false, unavailable("exists", err)
	}
	return n > 0, nil
}

// RevokeSubject stores the revocation instant in nanoseconds.
func (s *RedisRevocationStore) RevokeSubject(ctx context.Context, subject string, at, until time.Time) error {
	ttl := until.Sub(utils.Now())
	if ttl <= 0 {
		return nil
	}
	value := strconv.FormatInt(at.UnixNano(), 10)
	if err := s.client.Set(ctx, s.subjectPrefix+subject, value, ttl).Err(); err != nil {
		return unavailable("set", err)
	}
	return nil
}

func (s *RedisRevocationStore) RevokedSince(ctx context.Context, subject string) (time.Time, error) {
	raw, err := s.client.Get(ctx, s.subjectPrefix+subject).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, unavailable("get", err)
	}
	nanos, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode subject revocation %q: %w", subject, err)
	}
	return time.Unix(0, nanos).UTC(), nil
}
