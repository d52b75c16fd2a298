package domain

import "github.com/google/uuid"

type Role string

const (
	RoleOwner      Role = "owner"
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
	RoleMember     Role = "member"
	RoleStudent    Role = "student"
	RoleNone       Role = ""
)

var rolePrecedence = map[Role]int{
	RoleOwner:      5,
	RoleAdmin:      4,
	RoleInstructor: 3,
	RoleMember:     2,
	RoleStudent:    1,
}

// ParseRole normalizes a stored role name. Unrecognized names yield RoleNone.
func ParseRole(name string) Role {
	r := Role(name)
	if _, ok := rolePrecedence[r]; ok {
		return r
	}
	return RoleNone
}

// HighestRole picks the most privileged of the given roles.
func HighestRole(roles ...Role) Role {
	best := RoleNone
	for _, r := range roles {
		if rolePrecedence[r] > rolePrecedence[best] {
			best = r
		}
	}
	return best
}

// Actor is the authenticated principal of a request.
type Actor struct {
	UserID uuid.UUID
	Email  string
}

// RoleAssignment is what the store knows about an actor's privileges.
type RoleAssignment struct {
	Role         Role
	InstructorID *uuid.UUID
}
