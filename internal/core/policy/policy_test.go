package policy

import (
	"testing"

	"midway/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func principal(role domain.Role) *domain.Principal {
	return &domain.Principal{UserID: "u-1", Email: "u1@midway.test", Role: role}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		policy    Policy
		principal *domain.Principal
		want      Decision
	}{
		{"public admits anonymous", Public(), nil, Decision{Allowed: true}},
		{"authenticated rejects anonymous", AnyAuthenticated(), nil, Decision{Reason: ReasonUnauthenticated}},
		{"authenticated admits client", AnyAuthenticated(), principal(domain.RoleClient), Decision{Allowed: true}},
		{"staff rejects anonymous", Staff(), nil, Decision{Reason: ReasonUnauthenticated}},
		{"staff admits manager", Staff(), principal(domain.RoleManager), Decision{Allowed: true}},
		{"staff rejects client", Staff(), principal(domain.RoleClient), Decision{Reason: ReasonForbidden}},
		{"staff rejects cleaner", Staff(), principal(domain.RoleCleaner), Decision{Reason: ReasonForbidden}},
		{"empty role set admits nobody", Roles(), principal(domain.RoleAdmin), Decision{Reason: ReasonForbidden}},
		{"unknown role is forbidden", Roles(domain.RoleAdmin), principal(domain.Role("SUPERUSER")), Decision{Reason: ReasonForbidden}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Evaluate(tt.principal))
		})
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	p := Roles(domain.RoleAdmin, domain.RoleCleaner)
	who := principal(domain.RoleCleaner)

	first := p.Evaluate(who)
	second := p.Evaluate(who)
	assert.Equal(t, first, second)
	assert.Equal(t, domain.RoleCleaner, who.Role)
}

func TestString(t *testing.T) {
	assert.Equal(t, "public", Public().String())
	assert.Equal(t, "authenticated", AnyAuthenticated().String())
	assert.Equal(t, "roles(ADMIN,MANAGER)", Staff().String())
}
