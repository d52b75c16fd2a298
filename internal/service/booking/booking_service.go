package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightdesk/internal/access"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/metrics"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	GetBooking(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.BookingView, error)
	CancelBooking(ctx context.Context, actor domain.Actor, id uuid.UUID, input CancelBookingInput) (*domain.BookingView, error)
	UncancelBooking(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.BookingView, error)
}

type Cache interface {
	GetBooking(ctx context.Context, id uuid.UUID) (*domain.BookingView, error)
	SetBooking(ctx context.Context, view *domain.BookingView) error
	DeleteBooking(ctx context.Context, id uuid.UUID) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CancelBookingInput struct {
	CategoryID *uuid.UUID `json:"cancellation_category_id"`
	Reason     string     `json:"reason" validate:"max=500"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	cache              Cache
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	validate           *validator.Validate
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithCache(cache Cache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

func WithProducer(producer Producer, eventsTopic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.eventsTopic = eventsTopic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(bookings repository.BookingRepository, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{
		bookings: bookings,
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) GetBooking(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.BookingView, error) {
	view, err := s.cachedView(ctx, id)
	if err != nil {
		return nil, err
	}
	assignment, err := s.bookings.RoleAssignment(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !access.CanView(access.Resolve(actor, assignment, &view.Booking)) {
		return nil, domain.ErrForbidden
	}
	return view, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, actor domain.Actor, id uuid.UUID, input CancelBookingInput) (*domain.BookingView, error) {
	// input is validated after the guard: missing or forbidden bookings never
	// reach the category lookup
	return s.transition(ctx, actor, id, access.TransitionCancel, func(current domain.BookingStatus) error {
		cancel, err := s.cancelInput(ctx, input)
		if err != nil {
			return err
		}
		if !current.Cancellable() {
			return &domain.StateError{Current: current, Op: "cancel"}
		}
		return s.bookings.Cancel(ctx, id, actor.UserID, cancel)
	})
}

func (s *BookingService) UncancelBooking(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.BookingView, error) {
	return s.transition(ctx, actor, id, access.TransitionUncancel, func(current domain.BookingStatus) error {
		if current != domain.BookingStatusCancelled {
			return &domain.StateError{Current: current, Op: "uncancel"}
		}
		return s.bookings.Uncancel(ctx, id, actor.UserID)
	})
}

// transition loads the booking, applies the status guard and runs apply. The
// status check inside apply only short-circuits obvious rejections; the store
// re-checks it atomically. The result is always re-read from the store.
func (s *BookingService) transition(
	ctx context.Context,
	actor domain.Actor,
	id uuid.UUID,
	t access.Transition,
	apply func(current domain.BookingStatus) error,
) (*domain.BookingView, error) {
	view, err := s.bookings.GetView(ctx, id)
	if err != nil {
		metrics.IncTransition(string(t), outcome(err))
		return nil, err
	}
	assignment, err := s.bookings.RoleAssignment(ctx, actor.UserID)
	if err != nil {
		metrics.IncTransition(string(t), outcome(err))
		return nil, err
	}
	if !access.CanTransition(access.Resolve(actor, assignment, &view.Booking), t) {
		metrics.IncTransition(string(t), outcome(domain.ErrForbidden))
		return nil, domain.ErrForbidden
	}

	if err := apply(view.Status); err != nil {
		metrics.IncTransition(string(t), outcome(err))
		return nil, err
	}
	metrics.IncTransition(string(t), "success")

	updated, err := s.bookings.GetView(ctx, id)
	if err != nil {
		return nil, &domain.PersistenceError{Op: fmt.Sprintf("reload booking %s after %s", id, t), Err: err}
	}

	s.invalidateCache(ctx, id)
	s.publish(ctx, eventType(t), actor, updated)
	return updated, nil
}

func (s *BookingService) cancelInput(ctx context.Context, input CancelBookingInput) (domain.CancelInput, error) {
	input.Reason = strings.TrimSpace(input.Reason)
	if err := s.validate.Struct(input); err != nil {
		return domain.CancelInput{}, &domain.ValidationError{Field: "reason", Reason: "must be at most 500 characters"}
	}

	out := domain.CancelInput{CategoryID: input.CategoryID}
	if input.Reason != "" {
		reason := input.Reason
		out.Reason = &reason
	}
	if input.CategoryID != nil {
		ok, err := s.bookings.CategoryExists(ctx, *input.CategoryID)
		if err != nil {
			return domain.CancelInput{}, err
		}
		if !ok {
			return domain.CancelInput{}, &domain.ValidationError{Field: "cancellation_category_id", Reason: "unknown cancellation category"}
		}
	}
	return out, nil
}

func (s *BookingService) cachedView(ctx context.Context, id uuid.UUID) (*domain.BookingView, error) {
	if s.cache != nil {
		cached, err := s.cache.GetBooking(ctx, id)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil {
			logrus.WithField("booking_id", id).WithError(err).Warn("booking cache read failed")
		}
	}

	view, err := s.bookings.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetBooking(ctx, view); err != nil {
			logrus.WithField("booking_id", id).WithError(err).Warn("booking cache write failed")
		}
	}
	return view, nil
}

// invalidateCache drops the cached view after a transition; the next read
// repopulates it from the store.
func (s *BookingService) invalidateCache(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteBooking(ctx, id); err != nil {
		metrics.IncSideEffectFailure("cache")
		logrus.WithField("booking_id", id).WithError(err).Warn("failed to invalidate cached booking")
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, actor domain.Actor, view *domain.BookingView) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := newBookingEvent(eventType, actor, view, s.now())
	key := view.ID.String()

	topics := []string{s.eventsTopic}
	if s.notificationsTopic != "" {
		topics = append(topics, s.notificationsTopic)
	}
	for _, topic := range topics {
		if err := s.producer.Publish(ctx, topic, key, event); err != nil {
			metrics.IncSideEffectFailure("publish")
			logrus.WithFields(logrus.Fields{
				"booking_id": key,
				"event":      eventType,
				"topic":      topic,
			}).WithError(err).Warn("failed to publish booking event")
		}
	}
}

func newBookingEvent(eventType string, actor domain.Actor, view *domain.BookingView, now time.Time) kafka.BookingEvent {
	event := kafka.BookingEvent{
		Type:       eventType,
		BookingID:  view.ID.String(),
		Status:     string(view.Status),
		ActorID:    actor.UserID.String(),
		StartTime:  view.StartTime,
		EndTime:    view.EndTime,
		OccurredAt: now.UTC(),
	}
	if view.User != nil {
		event.UserEmail = view.User.Email
		event.UserName = strings.TrimSpace(view.User.FirstName + " " + view.User.LastName)
	}
	if view.Instructor != nil {
		event.InstructorEmail = view.Instructor.Email
	}
	if view.Aircraft != nil {
		event.AircraftRegistration = view.Aircraft.Registration
	}
	if view.CancellationReason != nil {
		event.Reason = *view.CancellationReason
	}
	return event
}

func eventType(t access.Transition) string {
	if t == access.TransitionCancel {
		return kafka.EventBookingCancelled
	}
	return kafka.EventBookingUncancelled
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrValidation):
		return "invalid_input"
	default:
		return "error"
	}
}

var _ BookingUseCase = (*BookingService)(nil)
