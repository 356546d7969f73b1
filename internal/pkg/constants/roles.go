package constants

// Role is an investor profile's privilege tier.
type Role string

const (
	RoleJunior Role = "investor_junior"
	RoleSenior Role = "investor_senior"
	RoleAdmin  Role = "admin_super"
)

// ValidRoles lists the roles ordered by privilege, lowest first.
var ValidRoles = []Role{RoleJunior, RoleSenior, RoleAdmin}

// IsValidRole returns true if role is one of the allowed enum values.
func IsValidRole(role string) bool {
	return Role(role).Valid()
}

func (r Role) Valid() bool {
	return r.Rank() > 0
}

// Rank orders roles by privilege (JUNIOR < SENIOR < ADMIN). Unknown roles rank 0.
func (r Role) Rank() int {
	for i, v := range ValidRoles {
		if v == r {
			return i + 1
		}
	}
	return 0
}

// AtLeast reports whether r is as privileged as min.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r.Rank() >= min.Rank()
}
