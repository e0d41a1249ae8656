package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"midway/internal/core/domain"
	"midway/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// Codec converts an entity to and from its stored JSON blob.
type Codec[E domain.Entity] struct {
	New       func() E
	Marshal   func(E) ([]byte, error)
	Unmarshal func([]byte, E) error
}

// JSONCodec stores the entity's own JSON form.
func JSONCodec[E domain.Entity](newFn func() E) Codec[E] {
	return Codec[E]{
		New:       newFn,
		Marshal:   func(e E) ([]byte, error) { return json.Marshal(e) },
		Unmarshal: func(data []byte, e E) error { return json.Unmarshal(data, e) },
	}
}

// RedisRepository keeps each record as a JSON string under
// midway:<entity>:<id> and tracks ids in the set midway:<entity>:ids.
// Filters are applied after loading.
type RedisRepository[E domain.Entity] struct {
	client *redis.Client
	prefix string
	codec  Codec[E]
}

func NewRedisRepository[E domain.Entity](client *redis.Client, entity string, codec Codec[E]) *RedisRepository[E] {
	return &RedisRepository[E]{
		client: client,
		prefix: keyPrefix + entity + ":",
		codec:  codec,
	}
}

func (r *RedisRepository[E]) recordKey(id string) string {
	return r.prefix + id
}

func (r *RedisRepository[E]) idsKey() string {
	return r.prefix + "ids"
}

func (r *RedisRepository[E]) Create(ctx context.Context, entity E) error {
	data, err := r.codec.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", r.prefix, err)
	}

	created, err := r.client.SetNX(ctx, r.recordKey(entity.GetID()), data, 0).Result()
	if err != nil {
		return unavailable("setnx", err)
	}
	if !created {
		return fmt.Errorf("id %s: %w", entity.GetID(), domain.ErrAlreadyExists)
	}

	if err := r.client.SAdd(ctx, r.idsKey(), entity.GetID()).Err(); err != nil {
		return unavailable("sadd", err)
	}
	return nil
}

func (r *RedisRepository[E]) Get(ctx context.Context, id string) (E, error) {
	var zero E
	data, err := r.client.Get(ctx, r.recordKey(id)).Bytes()
	if err == redis.Nil {
		return zero, domain.ErrNotFound
	}
	if err != nil {
		return zero, unavailable("get", err)
	}
	return r.decode(data)
}

func (r *RedisRepository[E]) decode(data []byte) (E, error) {
	entity := r.codec.New()
	if err := r.codec.Unmarshal(data, entity); err != nil {
		var zero E
		return zero, fmt.Errorf("failed to unmarshal %s record: %w", r.prefix, err)
	}
	return entity, nil
}

// Update overwrites an existing record. SetXX refuses to create a missing one.
func (r *RedisRepository[E]) Update(ctx context.Context, entity E) error {
	data, err := r.codec.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", r.prefix, err)
	}

	updated, err := r.client.SetXX(ctx, r.recordKey(entity.GetID()), data, redis.KeepTTL).Result()
	if err != nil {
		return unavailable("setxx", err)
	}
	if !updated {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RedisRepository[E]) Delete(ctx context.Context, id string) error {
	removed, err := r.client.Del(ctx, r.recordKey(id)).Result()
	if err != nil {
		return unavailable("del", err)
	}
	if err := r.client.SRem(ctx, r.idsKey(), id).Err(); err != nil {
		return unavailable("srem", err)
	}
	if removed == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns matching records, newest first.
func (r *RedisRepository[E]) List(ctx context.Context, filter ports.Filter) ([]E, error) {
	all, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]E, 0, len(all))
	for _, e := range all {
		if filter.Matches(e) {
			result = append(result, e)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		ci, cj := result[i].CreatedTime(), result[j].CreatedTime()
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return result[i].GetID() < result[j].GetID()
	})
	return result, nil
}

func (r *RedisRepository[E]) Count(ctx context.Context, filter ports.Filter) (int64, error) {
	items, err := r.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

func (r *RedisRepository[E]) loadAll(ctx context.Context) ([]E, error) {
	ids, err := r.client.SMembers(ctx, r.idsKey()).Result()
	if err != nil {
		return nil, unavailable("smembers", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.recordKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, unavailable("mget", err)
	}

	out := make([]E, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			// Deleted between SMEMBERS and MGET.
			continue
		}
		e, err := r.decode([]byte(s))
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
