// Package access resolves what an actor may do with a booking.
package access

import (
	"github.com/Domenick1991/flightdesk/internal/domain"
)

type Transition string

const (
	TransitionCancel   Transition = "cancel"
	TransitionUncancel Transition = "uncancel"
)

// Capabilities is the per-request view of an actor's standing towards one booking.
type Capabilities struct {
	Role                 domain.Role
	IsAdmin              bool
	IsOwner              bool
	IsAssignedInstructor bool
	IsBookingOwner       bool
}

// Resolve derives capabilities from the actor, the actor's role assignment and
// the booking being acted on.
func Resolve(actor domain.Actor, assignment domain.RoleAssignment, booking *domain.Booking) Capabilities {
	c := Capabilities{
		Role:    assignment.Role,
		IsAdmin: assignment.Role == domain.RoleAdmin,
		IsOwner: assignment.Role == domain.RoleOwner,
	}
	if booking == nil {
		return c
	}
	c.IsBookingOwner = booking.UserID == actor.UserID
	if assignment.Role == domain.RoleInstructor && assignment.InstructorID != nil && booking.InstructorID != nil {
		c.IsAssignedInstructor = *assignment.InstructorID == *booking.InstructorID
	}
	return c
}

// CanTransition is the status guard for cancel and uncancel.
func CanTransition(c Capabilities, t Transition) bool {
	switch t {
	case TransitionCancel, TransitionUncancel:
		return c.IsAdmin || c.IsOwner || c.IsAssignedInstructor || c.IsBookingOwner
	default:
		return false
	}
}

// CanView reports whether the booking may be read. Staff roles see every
// booking; members and students only their own.
func CanView(c Capabilities) bool {
	switch c.Role {
	case domain.RoleAdmin, domain.RoleOwner, domain.RoleInstructor:
		return true
	default:
		return c.IsBookingOwner
	}
}
