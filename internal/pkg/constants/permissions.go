package constants

const (
	ViewData         = "view_data"
	ManagePortfolios = "manage_portfolios"
	ManageAssets     = "manage_assets"
)

// PermissionRoles maps each permission to the roles allowed to perform it.
// Host matching for portfolio-bound permissions is enforced by the scope policy.
var PermissionRoles = map[string][]Role{
	ViewData:         {RoleJunior, RoleSenior, RoleAdmin},
	ManagePortfolios: {RoleSenior, RoleAdmin},
	ManageAssets:     {RoleSenior, RoleAdmin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission string, role Role) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
