package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type bookingKey struct {
	eventID uuid.UUID
	email   string
}

// StubBookingRepo enforces the (event, email) uniqueness constraint the way
// the database does, so service tests can exercise duplicate handling,
// including concurrent inserts.
type StubBookingRepo struct {
	mu   sync.Mutex
	data map[bookingKey]Booking
	now  time.Time
}

func NewStubBookingRepo() *StubBookingRepo {
	return &StubBookingRepo{data: map[bookingKey]Booking{}, now: time.Now()}
}

func (s *StubBookingRepo) Store(ctx context.Context, booking Booking) (Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := bookingKey{booking.EventID, booking.Email}
	if _, exists := s.data[key]; exists {
		return Booking{}, ErrAlreadyBooked
	}

	booking.ID = uuid.New()
	s.now = s.now.Add(time.Second)
	booking.CreatedAt = s.now
	booking.UpdatedAt = s.now
	s.data[key] = booking
	return booking, nil
}

func (s *StubBookingRepo) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookings := make([]Booking, 0)
	for _, booking := range s.data {
		if booking.EventID == eventID {
			bookings = append(bookings, booking)
		}
	}
	sortNewestFirst(bookings)
	return bookings, nil
}

func (s *StubBookingRepo) FindByEmail(ctx context.Context, email string) ([]Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := NormalizeEmail(email)
	bookings := make([]Booking, 0)
	for _, booking := range s.data {
		if booking.Email == normalized {
			bookings = append(bookings, booking)
		}
	}
	sortNewestFirst(bookings)
	return bookings, nil
}

func sortNewestFirst(bookings []Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
}

func (s *StubBookingRepo) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[bookingKey]Booking{}
}
