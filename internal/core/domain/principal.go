package domain

// Role is the closed set of roles a Principal can hold.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleCleaner Role = "CLEANER"
	RoleClient  Role = "CLIENT"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleManager, RoleCleaner, RoleClient}

// ParseRole returns the role named by s and whether it is valid.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// IsStaff reports whether the role manages company-wide data.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleManager
}

// Principal is the identity resolved for a single request. It is built from
// the verified credential and never mutated afterwards.
type Principal struct {
	UserID UserID `json:"id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// IsStaff reports whether the principal may see unscoped data.
func (p *Principal) IsStaff() bool {
	return p != nil && p.Role.IsStaff()
}
