package access

import (
	"testing"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition_Matrix(t *testing.T) {
	owner := uuid.New()
	instructorRecord := uuid.New()
	otherInstructorRecord := uuid.New()

	booking := &domain.Booking{
		ID:           uuid.New(),
		UserID:       owner,
		InstructorID: &instructorRecord,
		Status:       domain.BookingStatusCancelled,
	}

	testCases := []struct {
		name       string
		actor      domain.Actor
		assignment domain.RoleAssignment
		allowed    bool
	}{
		{
			name:       "booking owner as student",
			actor:      domain.Actor{UserID: owner},
			assignment: domain.RoleAssignment{Role: domain.RoleStudent},
			allowed:    true,
		},
		{
			name:       "booking owner without any role",
			actor:      domain.Actor{UserID: owner},
			assignment: domain.RoleAssignment{Role: domain.RoleNone},
			allowed:    true,
		},
		{
			name:       "assigned instructor",
			actor:      domain.Actor{UserID: uuid.New()},
			assignment: domain.RoleAssignment{Role: domain.RoleInstructor, InstructorID: &instructorRecord},
			allowed:    true,
		},
		{
			name:       "other instructor",
			actor:      domain.Actor{UserID: uuid.New()},
			assignment: domain.RoleAssignment{Role: domain.RoleInstructor, InstructorID: &otherInstructorRecord},
			allowed:    false,
		},
		{
			name:       "instructor role without instructor record",
			actor:      domain.Actor{UserID: uuid.New()},
			assignment: domain.RoleAssignment{Role: domain.RoleInstructor},
			allowed:    false,
		},
		{
			name:       "unrelated member",
			actor:      domain.Actor{UserID: uuid.New()},
			assignment: domain.RoleAssignment{Role: domain.RoleMember},
			allowed:    false,
		},
		{
			name:       "unrelated student",
			actor:      domain.Actor{UserID: uuid.New()},
			assignment: domain.RoleAssignment{Role: domain.RoleStudent},
			allowed:    false,
		},
		{
			name:       "admin",
			actor:      domain.Actor{UserID: uuid.New()},
			assignment: domain.RoleAssignment{Role: domain.RoleAdmin},
			allowed:    true,
		},
		{
			name:       "owner",
			actor:      domain.Actor{UserID: uuid.New()},
			assignment: domain.RoleAssignment{Role: domain.RoleOwner},
			allowed:    true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			caps := Resolve(tc.actor, tc.assignment, booking)
			assert.Equal(t, tc.allowed, CanTransition(caps, TransitionUncancel))
			assert.Equal(t, tc.allowed, CanTransition(caps, TransitionCancel))
		})
	}
}

func TestResolve_BookingWithoutInstructor(t *testing.T) {
	instructorRecord := uuid.New()
	booking := &domain.Booking{ID: uuid.New(), UserID: uuid.New()}

	caps := Resolve(domain.Actor{UserID: uuid.New()}, domain.RoleAssignment{Role: domain.RoleInstructor, InstructorID: &instructorRecord}, booking)

	assert.False(t, caps.IsAssignedInstructor)
	assert.False(t, CanTransition(caps, TransitionUncancel))
	assert.True(t, CanView(caps))
}

func TestCanTransition_UnknownTransition(t *testing.T) {
	caps := Capabilities{Role: domain.RoleAdmin, IsAdmin: true}
	assert.False(t, CanTransition(caps, Transition("complete")))
}

func TestCanView(t *testing.T) {
	owner := uuid.New()
	booking := &domain.Booking{ID: uuid.New(), UserID: owner}

	assert.True(t, CanView(Resolve(domain.Actor{UserID: owner}, domain.RoleAssignment{Role: domain.RoleMember}, booking)))
	assert.False(t, CanView(Resolve(domain.Actor{UserID: uuid.New()}, domain.RoleAssignment{Role: domain.RoleMember}, booking)))
	assert.True(t, CanView(Resolve(domain.Actor{UserID: uuid.New()}, domain.RoleAssignment{Role: domain.RoleOwner}, booking)))
}
