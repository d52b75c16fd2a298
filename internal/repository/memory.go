package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/google/uuid"
)

// StatusChange is one row of a booking's transition history.
type StatusChange struct {
	BookingID uuid.UUID
	From      domain.BookingStatus
	To        domain.BookingStatus
	ActorID   uuid.UUID
	At        time.Time
}

// MemoryStore keeps bookings and their related records in process. Every
// transition runs under a single mutex, which gives the same all-or-nothing
// guarantee as the row lock taken by the PostgreSQL repository.
type MemoryStore struct {
	mu          sync.RWMutex
	bookings    map[uuid.UUID]domain.Booking
	users       map[uuid.UUID]domain.UserSummary
	instructors map[uuid.UUID]domain.InstructorSummary
	aircraft    map[uuid.UUID]domain.Aircraft
	roles       map[uuid.UUID][]domain.Role
	categories  map[uuid.UUID]string
	history     []StatusChange
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bookings:    make(map[uuid.UUID]domain.Booking),
		users:       make(map[uuid.UUID]domain.UserSummary),
		instructors: make(map[uuid.UUID]domain.InstructorSummary),
		aircraft:    make(map[uuid.UUID]domain.Aircraft),
		roles:       make(map[uuid.UUID][]domain.Role),
		categories:  make(map[uuid.UUID]string),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) PutBooking(b domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID] = b
}

func (s *MemoryStore) PutUser(u domain.UserSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// PutInstructor registers an instructor record for an existing user.
func (s *MemoryStore) PutInstructor(instructorID, userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instructors[instructorID] = domain.InstructorSummary{ID: instructorID, UserID: userID}
}

func (s *MemoryStore) PutAircraft(a domain.Aircraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aircraft[a.ID] = a
}

func (s *MemoryStore) AssignRole(userID uuid.UUID, role domain.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[userID] = append(s.roles[userID], role)
}

func (s *MemoryStore) PutCategory(id uuid.UUID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[id] = name
}

// History returns the recorded transitions of one booking, oldest first.
func (s *MemoryStore) History(bookingID uuid.UUID) []StatusChange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []StatusChange
	for _, h := range s.history {
		if h.BookingID == bookingID {
			out = append(out, h)
		}
	}
	return out
}

func (s *MemoryStore) GetView(ctx context.Context, id uuid.UUID) (*domain.BookingView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	v := &domain.BookingView{Booking: b}
	if u, ok := s.users[b.UserID]; ok {
		v.User = &u
	}
	if b.InstructorID != nil {
		if in, ok := s.instructors[*b.InstructorID]; ok {
			if u, ok := s.users[in.UserID]; ok {
				in.FirstName, in.LastName, in.Email = u.FirstName, u.LastName, u.Email
			}
			v.Instructor = &in
		}
	}
	if a, ok := s.aircraft[b.AircraftID]; ok {
		v.Aircraft = &domain.AircraftSummary{ID: a.ID, Registration: a.Registration, Type: a.Type}
	}
	return v, nil
}

func (s *MemoryStore) RoleAssignment(ctx context.Context, userID uuid.UUID) (domain.RoleAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assignment := domain.RoleAssignment{Role: domain.HighestRole(s.roles[userID]...)}
	for id, in := range s.instructors {
		if in.UserID == userID {
			instructorID := id
			assignment.InstructorID = &instructorID
			break
		}
	}
	return assignment, nil
}

func (s *MemoryStore) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.categories[id]
	return ok, nil
}

func (s *MemoryStore) Cancel(ctx context.Context, id, actorID uuid.UUID, input domain.CancelInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return domain.ErrNotFound
	}
	if !b.Status.Cancellable() {
		return &domain.StateError{Current: b.Status, Op: "cancel"}
	}

	now := s.now()
	from := b.Status
	actor := actorID
	b.Status = domain.BookingStatusCancelled
	b.CancellationCategoryID = input.CategoryID
	b.CancellationReason = input.Reason
	b.CancelledBy = &actor
	b.CancelledAt = &now
	b.UpdatedAt = now
	s.bookings[id] = b
	s.history = append(s.history, StatusChange{BookingID: id, From: from, To: b.Status, ActorID: actorID, At: now})
	return nil
}

func (s *MemoryStore) Uncancel(ctx context.Context, id, actorID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return domain.ErrNotFound
	}
	if b.Status != domain.BookingStatusCancelled {
		return &domain.StateError{Current: b.Status, Op: "uncancel"}
	}

	now := s.now()
	b.Status = domain.BookingStatusConfirmed
	b.CancellationCategoryID = nil
	b.CancellationReason = nil
	b.CancelledBy = nil
	b.CancelledAt = nil
	b.UpdatedAt = now
	s.bookings[id] = b
	s.history = append(s.history, StatusChange{BookingID: id, From: domain.BookingStatusCancelled, To: b.Status, ActorID: actorID, At: now})
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]domain.Aircraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fleet := make([]domain.Aircraft, 0, len(s.aircraft))
	for _, a := range s.aircraft {
		fleet = append(fleet, a)
	}
	sort.Slice(fleet, func(i, j int) bool { return fleet[i].Registration < fleet[j].Registration })
	return fleet, nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Aircraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.aircraft[id]
	if !ok {
		return nil, domain.ErrAircraftMissing
	}
	return &a, nil
}

var (
	_ BookingRepository  = (*MemoryStore)(nil)
	_ AircraftRepository = (*MemoryStore)(nil)
)
