package user

// Role is the actor role carried in the JWT issued by the identity service.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// IsCompanyLevel reports whether the role may act on other employees within
// the same company.
func (r Role) IsCompanyLevel() bool {
	return r == RoleOwner || r == RoleManager
}
