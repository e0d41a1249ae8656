package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"midway/internal/core/domain"
	"midway/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// userRecord is the stored form of a user. The password hash is hidden from
// API JSON but must survive storage.
type userRecord struct {
	*domain.User
	PasswordHash string `json:"passwordHash"`
}

var userCodec = Codec[*domain.User]{
	New: func() *domain.User { return &domain.User{} },
	Marshal: func(u *domain.User) ([]byte, error) {
		return json.Marshal(userRecord{User: u, PasswordHash: u.PasswordHash})
	},
	Unmarshal: func(data []byte, u *domain.User) error {
		rec := userRecord{User: u}
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		u.PasswordHash = rec.PasswordHash
		return nil
	},
}

type RedisUserRepository struct {
	*RedisRepository[*domain.User]
}

func NewRedisUserRepository(client *redis.Client) ports.UserRepository {
	return &RedisUserRepository{
		RedisRepository: NewRedisRepository[*domain.User](client, "user", userCodec),
	}
}

func (r *RedisUserRepository) emailKey(email string) string {
	return r.prefix + "email:" + email
}

// Create claims the email index entry first so concurrent registrations of
// the same address cannot both succeed.
func (r *RedisUserRepository) Create(ctx context.Context, user *domain.User) error {
	claimed, err := r.client.SetNX(ctx, r.emailKey(user.Email), string(user.ID), 0).Result()
	if err != nil {
		return unavailable("setnx", err)
	}
	if !claimed {
		return fmt.Errorf("email %s: %w", user.Email, domain.ErrAlreadyExists)
	}

	if err := r.RedisRepository.Create(ctx, user); err != nil {
		r.client.Del(ctx, r.emailKey(user.Email))
		return err
	}
	return nil
}

func (r *RedisUserRepository) Delete(ctx context.Context, id string) error {
	user, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.RedisRepository.Delete(ctx, id); err != nil {
		return err
	}
	if err := r.client.Del(ctx, r.emailKey(user.Email)).Err(); err != nil {
		return unavailable("del", err)
	}
	return nil
}

func (r *RedisUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, err := r.client.Get(ctx, r.emailKey(email)).Result()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, unavailable("get", err)
	}
	return r.Get(ctx, id)
}
