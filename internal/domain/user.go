package domain

import "time"

// UserRole represents the access level of a user
type UserRole string

const (
	RoleUser   UserRole = "user"
	RoleMaster UserRole = "master"
	RoleAdmin  UserRole = "admin"
)

// IsValid reports whether r is a known role
func (r UserRole) IsValid() bool {
	return r == RoleUser || r == RoleMaster || r == RoleAdmin
}

// User represents a client identity. Created on first interaction.
type User struct {
	ID          int64 // Telegram ID
	Username    *string
	PhoneNumber *string
	Role        UserRole
	RegDate     time.Time
}
