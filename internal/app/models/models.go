package models

// Role is the access tier of a user account, fixed at creation
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// String implements fmt.Stringer
func (r Role) String() string {
	return string(r)
}
