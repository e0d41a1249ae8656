package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"midway/internal/core/domain"
	"midway/internal/core/ports"
	"midway/internal/infrastructure/repositories/memory"
	"midway/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterCreatesClient(t *testing.T) {
	users := memory.NewMemoryUserRepository()
	auth := newTestAuthService(users, memory.NewMemoryRevocationStore())

	user, err := auth.Register(context.Background(), " Dana ", "Dana@Midway.Test", "Password123!")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClient, user.Role)
	assert.Equal(t, "dana@midway.test", user.Email)
	assert.Equal(t, "Dana", user.Name)
	assert.True(t, user.Active)
	assert.NotContains(t, user.PasswordHash, "Password123!")

	_, err = auth.Register(context.Background(), "Dana again", "dana@midway.test", "Password123!")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestAuthService_RegisterValidates(t *testing.T) {
	auth := newTestAuthService(memory.NewMemoryUserRepository(), memory.NewMemoryRevocationStore())

	_, err := auth.Register(context.Background(), "", "not-an-email", "short")

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
}

func TestAuthService_LoginAndToken(t *testing.T) {
	ctx := context.Background()
	auth := newTestAuthService(memory.NewMemoryUserRepository(), memory.NewMemoryRevocationStore())

	registered, err := auth.Register(ctx, "Eli", "eli@midway.test", "Password123!")
	require.NoError(t, err)

	user, token, err := auth.Login(ctx, "ELI@midway.test", "Password123!")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, string(registered.ID), claims.Subject)
	assert.Equal(t, domain.RoleClient, claims.Role)
	assert.Equal(t, "midway", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, fixedNow.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	users := memory.NewMemoryUserRepository()
	auth := newTestAuthService(users, memory.NewMemoryRevocationStore())

	_, err := auth.Register(ctx, "Fay", "fay@midway.test", "Password123!")
	require.NoError(t, err)
	inactive, err := auth.Register(ctx, "Gus", "gus@midway.test", "Password123!")
	require.NoError(t, err)
	inactive.Active = false
	require.NoError(t, users.Update(ctx, inactive))

	cases := map[string][2]string{
		"unknown email":  {"nobody@midway.test", "Password123!"},
		"wrong password": {"fay@midway.test", "Password124!"},
		"inactive":       {"gus@midway.test", "Password123!"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, token, err := auth.Login(ctx, c[0], c[1])
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
			assert.Empty(t, token)
		})
	}
}

func TestAuthService_ParseTokenExpiry(t *testing.T) {
	auth := newTestAuthService(memory.NewMemoryUserRepository(), memory.NewMemoryRevocationStore())
	user := &domain.User{ID: "u-1", Email: "u@midway.test", Role: domain.RoleManager}

	token, err := auth.IssueToken(user)
	require.NoError(t, err)

	auth.now = func() time.Time { return fixedNow.Add(25 * time.Hour) }
	_, err = auth.ParseToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = auth.ParseToken("a.b.c")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_LogoutRevokesUntilExpiry(t *testing.T) {
	store := new(MockRevocationStore)
	auth := newTestAuthService(memory.NewMemoryUserRepository(), store)
	user := &domain.User{ID: "u-1", Email: "u@midway.test", Role: domain.RoleClient}

	token, err := auth.IssueToken(user)
	require.NoError(t, err)
	claims, err := auth.ParseToken(token)
	require.NoError(t, err)

	store.On("Revoke", mock.Anything, claims.ID, claims.ExpiresAt.Time).Return(nil).Once()
	require.NoError(t, auth.Logout(context.Background(), token))
	store.AssertExpectations(t)

	assert.NoError(t, auth.Logout(context.Background(), ""), "logout without a credential is a no-op")
	assert.NoError(t, auth.Logout(context.Background(), "garbage"))
	store.AssertNumberOfCalls(t, "Revoke", 1)
}

func TestAuthService_LogoutStoreFailure(t *testing.T) {
	store := new(MockRevocationStore)
	store.On("Revoke", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))
	auth := newTestAuthService(memory.NewMemoryUserRepository(), store)

	token, err := auth.IssueToken(&domain.User{ID: "u-1", Role: domain.RoleClient})
	require.NoError(t, err)

	err = auth.Logout(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrAuthProviderUnavailable)
}

func TestAuthService_MeReportsDeletedUser(t *testing.T) {
	ctx := context.Background()
	users := memory.NewMemoryUserRepository()
	auth := newTestAuthService(users, memory.NewMemoryRevocationStore())

	user, err := auth.Register(ctx, "Hal", "hal@midway.test", "Password123!")
	require.NoError(t, err)

	me, err := auth.Me(ctx, user.Principal())
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)

	require.NoError(t, users.Delete(ctx, string(user.ID)))
	_, err = auth.Me(ctx, user.Principal())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = auth.Me(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthService_EnsureAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	users := memory.NewMemoryUserRepository()
	auth := newTestAuthService(users, memory.NewMemoryRevocationStore())

	require.NoError(t, auth.EnsureAdmin(ctx, "root@midway.test", "Password123!"))
	require.NoError(t, auth.EnsureAdmin(ctx, "root@midway.test", "Password123!"))

	admin, err := users.GetByEmail(ctx, "root@midway.test")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	count, err := users.Count(ctx, ports.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.NoError(t, auth.EnsureAdmin(ctx, "", ""), "no bootstrap account configured")
}
