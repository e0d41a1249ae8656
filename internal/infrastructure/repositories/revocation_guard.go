package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"midway/internal/core/domain"
	"midway/internal/core/ports"
	"midway/pkg/circuitbreaker"
)

type guardedRevocationStore struct {
	next    ports.RevocationStore
	breaker *circuitbreaker.Breaker
}

// NewGuardedRevocationStore puts breaker in front of next. While the breaker
// is open every call fails at once with domain.ErrUpstreamUnavailable, which
// the session resolver turns into a 503 rather than an anonymous caller.
func NewGuardedRevocationStore(next ports.RevocationStore, breaker *circuitbreaker.Breaker) ports.RevocationStore {
	return &guardedRevocationStore{next: next, breaker: breaker}
}

func (g *guardedRevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	err := g.breaker.Do(func() error {
		return g.next.Revoke(ctx, tokenID, until)
	})
	return g.translate(err)
}

func (g *guardedRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	revoked, err := circuitbreaker.Call(g.breaker, func() (bool, error) {
		return g.next.IsRevoked(ctx, tokenID)
	})
	return revoked, g.translate(err)
}

func (g *guardedRevocationStore) RevokeSubject(ctx context.Context, subject string, at, until time.Time) error {
	err := g.breaker.Do(func() error {
		return g.next.RevokeSubject(ctx, subject, at, until)
	})
	return g.translate(err)
}

func (g *guardedRevocationStore) RevokedSince(ctx context.Context, subject string) (time.Time, error) {
	since, err := circuitbreaker.Call(g.breaker, func() (time.Time, error) {
		return g.next.RevokedSince(ctx, subject)
	})
	return since, g.translate(err)
}

func (g *guardedRevocationStore) translate(err error) error {
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return fmt.Errorf("%w: revocation store: %v", domain.ErrUpstreamUnavailable, err)
	}
	return err
}
