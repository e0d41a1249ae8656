package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"midway/internal/core/domain"
	"midway/internal/infrastructure/repositories/memory"
	"midway/pkg/circuitbreaker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyRevocationStore struct {
	err   error
	calls int
}

func (f *flakyRevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	f.calls++
	return f.err
}

func (f *flakyRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	f.calls++
	return false, f.err
}

func (f *flakyRevocationStore) RevokeSubject(ctx context.Context, subject string, at, until time.Time) error {
	f.calls++
	return f.err
}

func (f *flakyRevocationStore) RevokedSince(ctx context.Context, subject string) (time.Time, error) {
	f.calls++
	return time.Time{}, f.err
}

func TestGuardedRevocationStore_PassesThrough(t *testing.T) {
	store := NewGuardedRevocationStore(memory.NewMemoryRevocationStore(), circuitbreaker.New(circuitbreaker.DefaultConfig()))
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestGuardedRevocationStore_FailsFastWhenOpen(t *testing.T) {
	down := &flakyRevocationStore{err: fmt.Errorf("%w: redis exists: connection refused", domain.ErrUpstreamUnavailable)}
	store := NewGuardedRevocationStore(down, circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
	}))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := store.IsRevoked(ctx, "jti")
		assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	}
	require.Equal(t, 2, down.calls)

	_, err := store.IsRevoked(ctx, "jti")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.True(t, errors.Is(err, domain.ErrUpstreamUnavailable))
	assert.Equal(t, 2, down.calls)

	assert.ErrorIs(t, store.Revoke(ctx, "jti", time.Now()), domain.ErrUpstreamUnavailable)
	assert.Equal(t, 2, down.calls)
}

func TestGuardedRevocationStore_SubjectCallsShareTheBreaker(t *testing.T) {
	flaky := &flakyRevocationStore{err: errors.New("connection refused")}
	store := NewGuardedRevocationStore(flaky, circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		HalfOpenMaxCalls: 1,
	}))
	ctx := context.Background()

	_, err := store.RevokedSince(ctx, "user-1")
	require.Error(t, err)

	err = store.RevokeSubject(ctx, "user-1", time.Now(), time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Equal(t, 1, flaky.calls)
}
