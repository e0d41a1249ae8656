package services

import (
	"context"
	"time"

	"midway/internal/core/domain"
	"midway/internal/core/ports"
	"midway/internal/infrastructure/repositories/memory"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type MockRevocationStore struct {
	mock.Mock
}

func (m *MockRevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	args := m.Called(ctx, tokenID, until)
	return args.Error(0)
}

func (m *MockRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRevocationStore) RevokeSubject(ctx context.Context, subject string, at, until time.Time) error {
	return m.Called(ctx, subject, at, until).Error(0)
}

func (m *MockRevocationStore) RevokedSince(ctx context.Context, subject string) (time.Time, error) {
	args := m.Called(ctx, subject)
	return args.Get(0).(time.Time), args.Error(1)
}

// MockLocationRepository fails the test on any call it was not told to expect.
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) List(ctx context.Context, filter ports.Filter) ([]*domain.Location, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Location), args.Error(1)
}

func (m *MockLocationRepository) Get(ctx context.Context, id string) (*domain.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockLocationRepository) Create(ctx context.Context, l *domain.Location) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLocationRepository) Update(ctx context.Context, l *domain.Location) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLocationRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLocationRepository) Count(ctx context.Context, filter ports.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type countingRecorder struct {
	calls []string
}

func (r *countingRecorder) RecordMutation(entity, operation string) {
	r.calls = append(r.calls, entity+"."+operation)
}

func newTestAuthService(users ports.UserRepository, revocations ports.RevocationStore) *AuthService {
	svc := NewAuthService(users, revocations, AuthConfig{
		JWTSecret:  "test-secret",
		Issuer:     "midway",
		TokenTTL:   24 * time.Hour,
		HashParams: fastArgon,
	}, zap.NewNop().Sugar())
	svc.now = fixedClock
	return svc
}

func newScoped[E memory.Cloneable[E]](entity string, scope Scope, ownerField string) (*ResourceService[E], *memory.MemoryRepository[E]) {
	repo := memory.NewMemoryRepository[E]()
	svc := NewResourceService[E](repo, ResourceConfig{
		Entity:     entity,
		Scope:      scope,
		OwnerField: ownerField,
	}, zap.NewNop().Sugar())
	svc.now = fixedClock
	return svc, repo
}

var (
	adminPrincipal   = &domain.Principal{UserID: "admin-1", Email: "admin@midway.test", Role: domain.RoleAdmin}
	managerPrincipal = &domain.Principal{UserID: "manager-1", Email: "manager@midway.test", Role: domain.RoleManager}
	cleanerPrincipal = &domain.Principal{UserID: "cleaner-1", Email: "cleaner@midway.test", Role: domain.RoleCleaner}
	clientPrincipal  = &domain.Principal{UserID: "client-1", Email: "client@midway.test", Role: domain.RoleClient}
	otherClient      = &domain.Principal{UserID: "client-2", Email: "other@midway.test", Role: domain.RoleClient}
)
