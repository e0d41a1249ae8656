// Package policy declares which principals may invoke a route.
package policy

import (
	"sort"
	"strings"

	"midway/internal/core/domain"
)

type DenyReason string

const (
	ReasonUnauthenticated DenyReason = "unauthenticated"
	ReasonForbidden       DenyReason = "forbidden"
)

// Decision is the outcome of evaluating a Policy.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Decision                 { return Decision{Allowed: true} }
func deny(reason DenyReason) Decision { return Decision{Reason: reason} }

// Policy is the capability set attached to a route.
type Policy struct {
	public bool
	roles  map[domain.Role]struct{} // nil means any authenticated principal
}

// Public admits anonymous callers.
func Public() Policy {
	return Policy{public: true}
}

// AnyAuthenticated admits every resolved principal.
func AnyAuthenticated() Policy {
	return Policy{}
}

// Roles admits principals holding one of roles. Roles with no arguments
// admits nobody.
func Roles(roles ...domain.Role) Policy {
	set := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return Policy{roles: set}
}

// Staff is shorthand for ADMIN and MANAGER.
func Staff() Policy {
	return Roles(domain.RoleAdmin, domain.RoleManager)
}

// IsPublic reports whether the policy admits anonymous callers.
func (p Policy) IsPublic() bool {
	return p.public
}

// Evaluate checks principal against the policy. It has no side effects.
func (p Policy) Evaluate(principal *domain.Principal) Decision {
	if p.public {
		return allow()
	}
	if principal == nil {
		return deny(ReasonUnauthenticated)
	}
	if p.roles == nil {
		return allow()
	}
	if _, ok := p.roles[principal.Role]; ok {
		return allow()
	}
	return deny(ReasonForbidden)
}

func (p Policy) String() string {
	switch {
	case p.public:
		return "public"
	case p.roles == nil:
		return "authenticated"
	}
	names := make([]string, 0, len(p.roles))
	for r := range p.roles {
		names = append(names, string(r))
	}
	sort.Strings(names)
	return "roles(" + strings.Join(names, ",") + ")"
}
