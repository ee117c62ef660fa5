package booking

import (
	"context"
	"sync"
	"testing"

	"github.com/gatherly/gatherly/internal/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

type stubEventFinder struct {
	known map[uuid.UUID]bool
}

func (f *stubEventFinder) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.known[id], nil
}

var bookingRepoStub = NewStubBookingRepo()

var service BookingService

func setup(t *testing.T) (uuid.UUID, func()) {
	eventID := uuid.New()
	service = NewBookingService(bookingRepoStub, &stubEventFinder{known: map[uuid.UUID]bool{eventID: true}})
	return eventID, func() {
		t.Log("Teardown after test")
		bookingRepoStub.Cleanup()
	}
}

func TestBookingServiceImpl_CreateBooking(t *testing.T) {
	t.Run("should record a booking for an existing event", func(t *testing.T) {
		eventID, teardown := setup(t)
		defer teardown()

		// when
		created, err := service.CreateBooking(ctx, Booking{EventID: eventID, Email: "User@Example.com"})

		// then
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, "user@example.com", created.Email)
	})

	t.Run("should reject a booking for a missing event and persist nothing", func(t *testing.T) {
		_, teardown := setup(t)
		defer teardown()

		// given
		unknownEvent := uuid.New()

		// when
		_, err := service.CreateBooking(ctx, Booking{EventID: unknownEvent, Email: "user@example.com"})

		// then
		assert.ErrorIs(t, err, ErrEventNotFound)
		bookings, _ := service.ListEventBookings(ctx, unknownEvent)
		assert.Empty(t, bookings)
	})

	t.Run("should reject invalid fields before touching the event store", func(t *testing.T) {
		_, teardown := setup(t)
		defer teardown()

		// when
		_, err := service.CreateBooking(ctx, Booking{Email: "not-an-email"})

		// then
		var errs *validation.Errors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.Fields(), "eventId")
		assert.Contains(t, errs.Fields(), "email")
	})

	t.Run("should reject the second booking with the same event and email", func(t *testing.T) {
		eventID, teardown := setup(t)
		defer teardown()

		// given
		_, err := service.CreateBooking(ctx, Booking{EventID: eventID, Email: "user@example.com"})
		require.NoError(t, err)

		// when
		_, err = service.CreateBooking(ctx, Booking{EventID: eventID, Email: "  USER@example.com "})

		// then
		assert.ErrorIs(t, err, ErrAlreadyBooked)
	})

	t.Run("should let exactly one of two concurrent duplicates through", func(t *testing.T) {
		eventID, teardown := setup(t)
		defer teardown()

		// when
		errs := make([]error, 2)
		var wg sync.WaitGroup
		wg.Add(2)
		for i := 0; i < 2; i++ {
			go func(i int) {
				defer wg.Done()
				_, errs[i] = service.CreateBooking(ctx, Booking{EventID: eventID, Email: "user@example.com"})
			}(i)
		}
		wg.Wait()

		// then
		successes, conflicts := 0, 0
		for _, err := range errs {
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, ErrAlreadyBooked):
				conflicts++
			}
		}
		assert.Equal(t, 1, successes)
		assert.Equal(t, 1, conflicts)
	})
}

func TestBookingServiceImpl_ListEventBookings(t *testing.T) {
	t.Run("should list bookings for one event, most recent first", func(t *testing.T) {
		eventID, teardown := setup(t)
		defer teardown()

		// given
		_, err := service.CreateBooking(ctx, Booking{EventID: eventID, Email: "first@example.com"})
		require.NoError(t, err)
		_, err = service.CreateBooking(ctx, Booking{EventID: eventID, Email: "second@example.com"})
		require.NoError(t, err)

		// when
		bookings, err := service.ListEventBookings(ctx, eventID)

		// then
		require.NoError(t, err)
		require.Len(t, bookings, 2)
		assert.Equal(t, "second@example.com", bookings[0].Email)
		assert.Equal(t, "first@example.com", bookings[1].Email)
	})
}

func TestBookingServiceImpl_ListEmailBookings(t *testing.T) {
	t.Run("should list one address's bookings across events", func(t *testing.T) {
		eventID, teardown := setup(t)
		defer teardown()

		// given
		otherEvent := uuid.New()
		service = NewBookingService(bookingRepoStub, &stubEventFinder{known: map[uuid.UUID]bool{eventID: true, otherEvent: true}})
		_, err := service.CreateBooking(ctx, Booking{EventID: eventID, Email: "user@example.com"})
		require.NoError(t, err)
		_, err = service.CreateBooking(ctx, Booking{EventID: otherEvent, Email: "user@example.com"})
		require.NoError(t, err)
		_, err = service.CreateBooking(ctx, Booking{EventID: eventID, Email: "someone-else@example.com"})
		require.NoError(t, err)

		// when
		bookings, err := service.ListEmailBookings(ctx, "USER@example.com")

		// then
		require.NoError(t, err)
		require.Len(t, bookings, 2)
		assert.Equal(t, otherEvent, bookings[0].EventID)
		assert.Equal(t, eventID, bookings[1].EventID)
	})
}
