package domain

import (
	"fmt"

	"github.com/campusworks/registrar/pkg/idx"
)

// Role classifies an account and drives both credential verification and
// the permissions attached to issued sessions.
type Role string

const (
	RoleStudent Role = "Student"
	RoleFaculty Role = "Faculty"
	RoleAdmin   Role = "Admin"
)

// ParseRole validates a role string received from storage or a token claim.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string { return string(r) }

// Account is a portal user able to authenticate. Credential holds an
// argon2id PHC string for students and a plaintext password for faculty
// and admin accounts provisioned by the legacy import.
type Account struct {
	ID         idx.ID
	Email      string
	Credential string
	Role       Role
	CreatedAt  int64
	UpdatedAt  int64
}
