package domain

import (
	"fmt"
	"time"
)

// Role is the authorization level carried in an identity claim.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole accepts only the known roles.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleUser, RoleAdmin:
		return Role(raw), nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// Identity is the verified content of a bearer token. It is rebuilt on every request.
type Identity struct {
	SubjectID string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
