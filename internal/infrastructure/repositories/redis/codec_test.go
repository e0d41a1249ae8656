package redis

import (
	"encoding/json"
	"testing"
	"time"

	"midway/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCodec_KeepsPasswordHash(t *testing.T) {
	created := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	in := &domain.User{
		ID:           "u-1",
		Email:        "lee@midway.test",
		Name:         "Lee",
		Role:         domain.RoleCleaner,
		Active:       true,
		PasswordHash: "argon2id$m=1024,t=1,p=1$c2FsdA$a2V5",
		CreatedAt:    created,
		UpdatedAt:    created,
	}

	data, err := userCodec.Marshal(in)
	require.NoError(t, err)

	out := userCodec.New()
	require.NoError(t, userCodec.Unmarshal(data, out))
	assert.Equal(t, in, out)

	public, err := json.Marshal(in)
	require.NoError(t, err)
	assert.NotContains(t, string(public), "argon2id", "API JSON must not expose the hash")
}

func TestRedisRepository_Keys(t *testing.T) {
	repo := NewRedisRepository[*domain.Booking](nil, "booking", JSONCodec(func() *domain.Booking { return &domain.Booking{} }))

	assert.Equal(t, "midway:booking:b-1", repo.recordKey("b-1"))
	assert.Equal(t, "midway:booking:ids", repo.idsKey())

	users := NewRedisUserRepository(nil).(*RedisUserRepository)
	assert.Equal(t, "midway:user:email:lee@midway.test", users.emailKey("lee@midway.test"))
}
