package ports

import (
	"context"
	"time"

	"midway/internal/core/domain"
)

// Filter narrows a List or Count. Zero values mean "no constraint".
type Filter struct {
	OwnerID string
	Status  string
	Since   time.Time // inclusive, on CreatedTime
	Until   time.Time // exclusive, on CreatedTime
}

// Matches reports whether e satisfies f. Backends that cannot push a filter
// down to storage apply it with Matches.
func (f Filter) Matches(e domain.Entity) bool {
	if f.OwnerID != "" && e.OwnerID() != f.OwnerID {
		return false
	}
	if f.Status != "" && e.StatusValue() != f.Status {
		return false
	}
	created := e.CreatedTime()
	if !f.Since.IsZero() && created.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && !created.Before(f.Until) {
		return false
	}
	return true
}

// Repository is the storage contract shared by every entity. Get, Update and
// Delete return domain.ErrNotFound for a missing id.
type Repository[E domain.Entity] interface {
	List(ctx context.Context, filter Filter) ([]E, error)
	Get(ctx context.Context, id string) (E, error)
	Create(ctx context.Context, entity E) error
	Update(ctx context.Context, entity E) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter Filter) (int64, error)
}

// UserRepository adds the lookups authentication needs.
type UserRepository interface {
	Repository[*domain.User]
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// RevocationStore remembers logged-out credentials until they would have
// expired anyway. A subject revocation invalidates every credential of one
// user issued at or before a point in time.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	RevokeSubject(ctx context.Context, subject string, at, until time.Time) error
	// RevokedSince returns the zero time when subject has no revocation.
	RevokedSince(ctx context.Context, subject string) (time.Time, error)
}
