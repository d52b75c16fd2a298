package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store        *MemoryStore
	bookingID    uuid.UUID
	userID       uuid.UUID
	instructorID uuid.UUID
	aircraftID   uuid.UUID
}

func newFixture(status domain.BookingStatus) fixture {
	f := fixture{
		store:        NewMemoryStore(),
		bookingID:    uuid.New(),
		userID:       uuid.New(),
		instructorID: uuid.New(),
		aircraftID:   uuid.New(),
	}
	instructorUser := uuid.New()
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	f.store.PutUser(domain.UserSummary{ID: f.userID, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	f.store.PutUser(domain.UserSummary{ID: instructorUser, FirstName: "Chuck", LastName: "Yeager", Email: "chuck@example.com"})
	f.store.PutInstructor(f.instructorID, instructorUser)
	f.store.PutAircraft(domain.Aircraft{ID: f.aircraftID, Registration: "ZK-ABC", Type: "C172"})
	f.store.PutBooking(domain.Booking{
		ID:           f.bookingID,
		AircraftID:   f.aircraftID,
		UserID:       f.userID,
		InstructorID: &f.instructorID,
		StartTime:    start,
		EndTime:      start.Add(2 * time.Hour),
		Status:       status,
		Purpose:      "circuits",
	})
	return f
}

func TestMemoryStore_GetView_Joined(t *testing.T) {
	f := newFixture(domain.BookingStatusConfirmed)

	v, err := f.store.GetView(context.Background(), f.bookingID)

	require.NoError(t, err)
	require.NotNil(t, v.User)
	require.NotNil(t, v.Instructor)
	require.NotNil(t, v.Aircraft)
	assert.Equal(t, "ada@example.com", v.User.Email)
	assert.Equal(t, "Yeager", v.Instructor.LastName)
	assert.Equal(t, "ZK-ABC", v.Aircraft.Registration)
}

func TestMemoryStore_GetView_MissingJoins(t *testing.T) {
	store := NewMemoryStore()
	id := uuid.New()
	store.PutBooking(domain.Booking{ID: id, UserID: uuid.New(), AircraftID: uuid.New(), Status: domain.BookingStatusConfirmed})

	v, err := store.GetView(context.Background(), id)

	require.NoError(t, err)
	assert.Nil(t, v.User)
	assert.Nil(t, v.Instructor)
	assert.Nil(t, v.Aircraft)
}

func TestMemoryStore_GetView_NotFound(t *testing.T) {
	store := NewMemoryStore()

	v, err := store.GetView(context.Background(), uuid.New())

	assert.Nil(t, v)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStore_UncancelTwice(t *testing.T) {
	f := newFixture(domain.BookingStatusCancelled)
	ctx := context.Background()

	require.NoError(t, f.store.Uncancel(ctx, f.bookingID, f.userID))

	err := f.store.Uncancel(ctx, f.bookingID, f.userID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Contains(t, err.Error(), "booking is not cancelled")

	v, err := f.store.GetView(ctx, f.bookingID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, v.Status)
	assert.Len(t, f.store.History(f.bookingID), 1)
}

func TestMemoryStore_CancelUncancelRoundTrip(t *testing.T) {
	f := newFixture(domain.BookingStatusConfirmed)
	ctx := context.Background()
	before, err := f.store.GetView(ctx, f.bookingID)
	require.NoError(t, err)

	reason := "weather"
	category := uuid.New()
	require.NoError(t, f.store.Cancel(ctx, f.bookingID, f.userID, domain.CancelInput{CategoryID: &category, Reason: &reason}))

	cancelled, err := f.store.GetView(ctx, f.bookingID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancellationReason)
	assert.Equal(t, "weather", *cancelled.CancellationReason)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, f.userID, *cancelled.CancelledBy)
	assert.NotNil(t, cancelled.CancelledAt)

	require.NoError(t, f.store.Uncancel(ctx, f.bookingID, f.userID))

	after, err := f.store.GetView(ctx, f.bookingID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, after.Status)
	assert.Equal(t, before.AircraftID, after.AircraftID)
	assert.Equal(t, before.UserID, after.UserID)
	assert.Equal(t, before.StartTime, after.StartTime)
	assert.Equal(t, before.EndTime, after.EndTime)
	assert.Equal(t, before.InstructorID, after.InstructorID)
	assert.Nil(t, after.CancellationReason)
	assert.Nil(t, after.CancelledAt)

	history := f.store.History(f.bookingID)
	require.Len(t, history, 2)
	assert.Equal(t, domain.BookingStatusConfirmed, history[0].From)
	assert.Equal(t, domain.BookingStatusCancelled, history[1].From)
}

func TestMemoryStore_CancelRejectedStates(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.BookingStatusComplete, domain.BookingStatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(status)
			err := f.store.Cancel(context.Background(), f.bookingID, f.userID, domain.CancelInput{})
			assert.ErrorIs(t, err, domain.ErrInvalidState)
		})
	}
}

func TestMemoryStore_TransitionsNotFound(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.Uncancel(ctx, uuid.New(), uuid.New()), domain.ErrNotFound)
	assert.ErrorIs(t, store.Cancel(ctx, uuid.New(), uuid.New(), domain.CancelInput{}), domain.ErrNotFound)
}

func TestMemoryStore_ConcurrentUncancel(t *testing.T) {
	f := newFixture(domain.BookingStatusCancelled)
	ctx := context.Background()

	const callers = 8
	var (
		wg      sync.WaitGroup
		start   = make(chan struct{})
		results = make(chan error, callers)
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results <- f.store.Uncancel(ctx, f.bookingID, f.userID)
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	succeeded, rejected := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrInvalidState):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, callers-1, rejected)

	v, err := f.store.GetView(ctx, f.bookingID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, v.Status)
}

func TestMemoryStore_RoleAssignment(t *testing.T) {
	f := newFixture(domain.BookingStatusConfirmed)
	ctx := context.Background()

	f.store.AssignRole(f.userID, domain.RoleStudent)
	f.store.AssignRole(f.userID, domain.RoleMember)

	got, err := f.store.RoleAssignment(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, got.Role)
	assert.Nil(t, got.InstructorID)

	view, err := f.store.GetView(ctx, f.bookingID)
	require.NoError(t, err)
	instr, err := f.store.RoleAssignment(ctx, view.Instructor.UserID)
	require.NoError(t, err)
	require.NotNil(t, instr.InstructorID)
	assert.Equal(t, f.instructorID, *instr.InstructorID)
}

func TestMemoryStore_Aircraft(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	b := domain.Aircraft{ID: uuid.New(), Registration: "ZK-BBB"}
	a := domain.Aircraft{ID: uuid.New(), Registration: "ZK-AAA"}
	store.PutAircraft(b)
	store.PutAircraft(a)

	fleet, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, fleet, 2)
	assert.Equal(t, "ZK-AAA", fleet[0].Registration)

	_, err = store.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrAircraftMissing)
}
