package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusUnconfirmed BookingStatus = "unconfirmed"
	BookingStatusConfirmed   BookingStatus = "confirmed"
	BookingStatusBriefing    BookingStatus = "briefing"
	BookingStatusFlying      BookingStatus = "flying"
	BookingStatusComplete    BookingStatus = "complete"
	BookingStatusCancelled   BookingStatus = "cancelled"
)

// Cancellable reports whether a booking in this status may move to cancelled.
func (s BookingStatus) Cancellable() bool {
	switch s {
	case BookingStatusUnconfirmed, BookingStatusConfirmed, BookingStatusBriefing, BookingStatusFlying:
		return true
	default:
		return false
	}
}

type Booking struct {
	ID                     uuid.UUID
	OrganizationID         uuid.UUID
	AircraftID             uuid.UUID
	UserID                 uuid.UUID
	InstructorID           *uuid.UUID
	StartTime              time.Time
	EndTime                time.Time
	Status                 BookingStatus
	Purpose                string
	Remarks                *string
	LessonID               *uuid.UUID
	FlightTypeID           *uuid.UUID
	BookingType            string
	CancellationCategoryID *uuid.UUID
	CancellationReason     *string
	CancelledBy            *uuid.UUID
	CancelledAt            *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

type UserSummary struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
}

type InstructorSummary struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Email     string
}

type AircraftSummary struct {
	ID           uuid.UUID
	Registration string
	Type         string
}

// BookingView is a booking joined with the records it references. Any of the
// joined records may be nil when the reference is unset or dangling.
type BookingView struct {
	Booking
	User       *UserSummary
	Instructor *InstructorSummary
	Aircraft   *AircraftSummary
}

// CancelInput carries the optional cancellation details recorded on the booking.
type CancelInput struct {
	CategoryID *uuid.UUID
	Reason     *string
}
