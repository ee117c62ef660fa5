package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/gatherly/internal/metrics"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrEventNotFound means the booking references an event that does not
	// exist. Distinct from field validation so callers can say "event not
	// found" instead of "bad input".
	ErrEventNotFound = fmt.Errorf("referenced event does not exist")

	// ErrAlreadyBooked means the (event, email) pair is already booked.
	ErrAlreadyBooked = fmt.Errorf("this email has already booked this event")
)

// EventFinder answers whether an event exists. Satisfied by the event
// repository; substituted with a test double in tests.
type EventFinder interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, booking Booking) (Booking, error)
	ListEventBookings(ctx context.Context, eventID uuid.UUID) ([]Booking, error)
	ListEmailBookings(ctx context.Context, email string) ([]Booking, error)
}

type BookingServiceImpl struct {
	repo   BookingRepository
	events EventFinder
}

func NewBookingService(repo BookingRepository, events EventFinder) *BookingServiceImpl {
	return &BookingServiceImpl{repo: repo, events: events}
}

// CreateBooking records an RSVP in three steps: pure field validation, an
// existence check on the referenced event, then the constrained insert.
// Nothing is persisted when any step fails.
func (s *BookingServiceImpl) CreateBooking(ctx context.Context, booking Booking) (Booking, error) {
	if err := booking.Validate(); err != nil {
		metrics.ValidationFailures.Inc()
		return Booking{}, err
	}

	exists, err := s.events.Exists(ctx, booking.EventID)
	if err != nil {
		return Booking{}, fmt.Errorf("could not verify event %s: %w", booking.EventID, err)
	}
	if !exists {
		return Booking{}, ErrEventNotFound
	}

	stored, err := s.repo.Store(ctx, booking)
	if err != nil {
		if errors.Is(err, ErrAlreadyBooked) {
			metrics.BookingConflicts.Inc()
		}
		return Booking{}, err
	}
	metrics.BookingsCreated.Inc()
	log.Debugf("Recorded booking %s for event %s", stored.ID, stored.EventID)
	return stored, nil
}

func (s *BookingServiceImpl) ListEventBookings(ctx context.Context, eventID uuid.UUID) ([]Booking, error) {
	return s.repo.FindByEvent(ctx, eventID)
}

func (s *BookingServiceImpl) ListEmailBookings(ctx context.Context, email string) ([]Booking, error) {
	return s.repo.FindByEmail(ctx, email)
}
