package domain

import "time"

// User is a person on the platform. Every user owns one account.
type User struct {
	ID        string
	Handle    string
	Name      string
	Bio       *string
	AccountID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role grants access to admin operations. It travels in auth tokens only.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid checks if the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}
