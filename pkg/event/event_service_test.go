package event

import (
	"context"
	"testing"

	"github.com/gatherly/gatherly/internal/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

var eventRepoStub = NewStubEventRepo()

var service EventService

func setup(t *testing.T) func() {
	service = NewEventService(eventRepoStub)
	return func() {
		t.Log("Teardown after test")
		eventRepoStub.Cleanup()
	}
}

func TestEventServiceImpl_CreateEvent(t *testing.T) {
	t.Run("should create event with derived slug and generated id", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		e := validEvent()
		e.Title = "Tech Conference 2024!"

		// when
		created, err := service.CreateEvent(ctx, e)

		// then
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, "tech-conference-2024", created.Slug)
		assert.False(t, created.CreatedAt.IsZero())
	})

	t.Run("should ignore any client-supplied slug", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		e := validEvent()
		e.Slug = "SOMETHING-ELSE"

		// when
		created, err := service.CreateEvent(ctx, e)

		// then
		require.NoError(t, err)
		assert.Equal(t, "tech-conference-2024", created.Slug)
	})

	t.Run("should reject invalid payload and persist nothing", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.CreateEvent(ctx, Event{Title: "No other fields"})

		// then
		var errs *validation.Errors
		require.ErrorAs(t, err, &errs)
		events, _ := service.ListEvents(ctx)
		assert.Empty(t, events)
	})
}

func TestEventServiceImpl_ListEvents(t *testing.T) {
	t.Run("should list events newest date first", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		january := validEvent()
		january.Title = "January Meetup"
		january.Date = "2024-01-01"
		june := validEvent()
		june.Title = "June Meetup"
		june.Date = "2024-06-01"
		_, err := service.CreateEvent(ctx, january)
		require.NoError(t, err)
		_, err = service.CreateEvent(ctx, june)
		require.NoError(t, err)

		// when
		events, err := service.ListEvents(ctx)

		// then
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "2024-06-01", events[0].Date)
		assert.Equal(t, "2024-01-01", events[1].Date)
	})
}

func TestEventServiceImpl_GetEventBySlug(t *testing.T) {
	t.Run("should find a stored event by slug", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.CreateEvent(ctx, validEvent())
		require.NoError(t, err)

		// when
		found, err := service.GetEventBySlug(ctx, created.Slug)

		// then
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("should report a missing slug as not found", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.GetEventBySlug(ctx, "no-such-event")

		// then
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestEventServiceImpl_UpdateEvent(t *testing.T) {
	t.Run("should recompute slug when title changes", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.CreateEvent(ctx, validEvent())
		require.NoError(t, err)

		// when
		renamed := created
		renamed.Title = "Renamed Summit 2025"
		updated, err := service.UpdateEvent(ctx, renamed)

		// then
		require.NoError(t, err)
		assert.Equal(t, "renamed-summit-2025", updated.Slug)
	})

	t.Run("should report updating a missing event as not found", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		e := validEvent()
		e.ID = uuid.New()

		// when
		_, err := service.UpdateEvent(ctx, e)

		// then
		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("should reject an update without an id", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.UpdateEvent(ctx, validEvent())

		// then
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}
