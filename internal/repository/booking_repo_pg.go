package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/flightdesk/internal/db"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BookingRepository is the persistence contract of the booking lifecycle.
// Cancel and Uncancel are atomic: the status precondition is checked and the
// change applied in one step, so concurrent callers cannot both succeed.
type BookingRepository interface {
	GetView(ctx context.Context, id uuid.UUID) (*domain.BookingView, error)
	RoleAssignment(ctx context.Context, userID uuid.UUID) (domain.RoleAssignment, error)
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
	Cancel(ctx context.Context, id, actorID uuid.UUID, input domain.CancelInput) error
	Uncancel(ctx context.Context, id, actorID uuid.UUID) error
}

type PGBookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(conn db.DBTX) BookingRepository {
	return &PGBookingRepository{db: conn}
}

const bookingViewQuery = `
SELECT b.id, b.organization_id, b.aircraft_id, b.user_id, b.instructor_id,
       b.start_time, b.end_time, b.status, b.purpose, b.remarks, b.lesson_id, b.flight_type_id, b.booking_type,
       b.cancellation_category_id, b.cancellation_reason, b.cancelled_by, b.cancelled_at,
       b.created_at, b.updated_at,
       u.id, u.first_name, u.last_name, u.email,
       i.id, iu.id, iu.first_name, iu.last_name, iu.email,
       a.id, a.registration, a.type
FROM bookings b
LEFT JOIN users u ON u.id = b.user_id
LEFT JOIN instructors i ON i.id = b.instructor_id
LEFT JOIN users iu ON iu.id = i.user_id
LEFT JOIN aircraft a ON a.id = b.aircraft_id
WHERE b.id = $1`

func (r *PGBookingRepository) GetView(ctx context.Context, id uuid.UUID) (*domain.BookingView, error) {
	var (
		v domain.BookingView

		userID                             *uuid.UUID
		userFirst, userLast, userEmail     *string
		instructorID, instructorUserID     *uuid.UUID
		instrFirst, instrLast, instrEmail  *string
		aircraftID                         *uuid.UUID
		aircraftRegistration, aircraftType *string
	)
	err := r.db.QueryRow(ctx, bookingViewQuery, id).Scan(
		&v.ID, &v.OrganizationID, &v.AircraftID, &v.UserID, &v.InstructorID,
		&v.StartTime, &v.EndTime, &v.Status, &v.Purpose, &v.Remarks, &v.LessonID, &v.FlightTypeID, &v.BookingType,
		&v.CancellationCategoryID, &v.CancellationReason, &v.CancelledBy, &v.CancelledAt,
		&v.CreatedAt, &v.UpdatedAt,
		&userID, &userFirst, &userLast, &userEmail,
		&instructorID, &instructorUserID, &instrFirst, &instrLast, &instrEmail,
		&aircraftID, &aircraftRegistration, &aircraftType,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.PersistenceError{Op: "get booking", Err: err}
	}

	if userID != nil {
		v.User = &domain.UserSummary{ID: *userID, FirstName: deref(userFirst), LastName: deref(userLast), Email: deref(userEmail)}
	}
	if instructorID != nil {
		in := &domain.InstructorSummary{ID: *instructorID, FirstName: deref(instrFirst), LastName: deref(instrLast), Email: deref(instrEmail)}
		if instructorUserID != nil {
			in.UserID = *instructorUserID
		}
		v.Instructor = in
	}
	if aircraftID != nil {
		v.Aircraft = &domain.AircraftSummary{ID: *aircraftID, Registration: deref(aircraftRegistration), Type: deref(aircraftType)}
	}
	return &v, nil
}

func (r *PGBookingRepository) RoleAssignment(ctx context.Context, userID uuid.UUID) (domain.RoleAssignment, error) {
	rows, err := r.db.Query(ctx, `SELECT r.name FROM user_roles ur JOIN roles r ON r.id = ur.role_id WHERE ur.user_id=$1 AND ur.is_active`, userID)
	if err != nil {
		return domain.RoleAssignment{}, &domain.PersistenceError{Op: "load roles", Err: err}
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return domain.RoleAssignment{}, &domain.PersistenceError{Op: "load roles", Err: err}
		}
		roles = append(roles, domain.ParseRole(name))
	}
	if err := rows.Err(); err != nil {
		return domain.RoleAssignment{}, &domain.PersistenceError{Op: "load roles", Err: err}
	}

	assignment := domain.RoleAssignment{Role: domain.HighestRole(roles...)}

	var instructorID uuid.UUID
	err = r.db.QueryRow(ctx, `SELECT id FROM instructors WHERE user_id=$1`, userID).Scan(&instructorID)
	switch {
	case err == nil:
		assignment.InstructorID = &instructorID
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return domain.RoleAssignment{}, &domain.PersistenceError{Op: "load instructor", Err: err}
	}
	return assignment, nil
}

func (r *PGBookingRepository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM cancellation_categories WHERE id=$1)`, id).Scan(&exists); err != nil {
		return false, &domain.PersistenceError{Op: "check cancellation category", Err: err}
	}
	return exists, nil
}

func (r *PGBookingRepository) Cancel(ctx context.Context, id, actorID uuid.UUID, input domain.CancelInput) error {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		current, err := lockStatus(ctx, tx, id)
		if err != nil {
			return err
		}
		if !current.Cancellable() {
			return &domain.StateError{Current: current, Op: "cancel"}
		}
		if _, err := tx.Exec(ctx, `
			UPDATE bookings
			SET status=$1, cancellation_category_id=$2, cancellation_reason=$3, cancelled_by=$4, cancelled_at=$5, updated_at=now()
			WHERE id=$6`,
			domain.BookingStatusCancelled, input.CategoryID, input.Reason, actorID, time.Now().UTC(), id); err != nil {
			return err
		}
		return recordTransition(ctx, tx, id, current, domain.BookingStatusCancelled, actorID)
	})
	return classify("cancel booking", err)
}

func (r *PGBookingRepository) Uncancel(ctx context.Context, id, actorID uuid.UUID) error {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		current, err := lockStatus(ctx, tx, id)
		if err != nil {
			return err
		}
		if current != domain.BookingStatusCancelled {
			return &domain.StateError{Current: current, Op: "uncancel"}
		}
		if _, err := tx.Exec(ctx, `
			UPDATE bookings
			SET status=$1, cancellation_category_id=NULL, cancellation_reason=NULL, cancelled_by=NULL, cancelled_at=NULL, updated_at=now()
			WHERE id=$2`,
			domain.BookingStatusConfirmed, id); err != nil {
			return err
		}
		return recordTransition(ctx, tx, id, current, domain.BookingStatusConfirmed, actorID)
	})
	return classify("uncancel booking", err)
}

// lockStatus reads the current status holding the row lock until the
// transaction ends, so the precondition cannot change under us.
func lockStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID) (domain.BookingStatus, error) {
	var status domain.BookingStatus
	if err := tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id=$1 FOR UPDATE`, id).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return status, nil
}

func recordTransition(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to domain.BookingStatus, actorID uuid.UUID) error {
	_, err := tx.Exec(ctx, `INSERT INTO booking_status_history (booking_id, from_status, to_status, actor_id) VALUES ($1, $2, $3, $4)`, id, from, to, actorID)
	return err
}

// classify keeps domain rejections as they are and wraps everything else as a
// persistence failure.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidState) {
		return err
	}
	return &domain.PersistenceError{Op: op, Err: err}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ BookingRepository = (*PGBookingRepository)(nil)
