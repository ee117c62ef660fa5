package event

import (
	"context"
	"fmt"

	"github.com/gatherly/gatherly/internal/metrics"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrEventNotFound = fmt.Errorf("event not found")

type EventService interface {
	ListEvents(ctx context.Context) ([]Event, error)
	GetEventBySlug(ctx context.Context, slug string) (Event, error)
	CreateEvent(ctx context.Context, event Event) (Event, error)
	UpdateEvent(ctx context.Context, event Event) (Event, error)
}

type EventServiceImpl struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventServiceImpl {
	return &EventServiceImpl{repo: repo}
}

func (s *EventServiceImpl) ListEvents(ctx context.Context) ([]Event, error) {
	return s.repo.FindAll(ctx)
}

func (s *EventServiceImpl) GetEventBySlug(ctx context.Context, slug string) (Event, error) {
	event, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return Event{}, err
	}
	if event == nil {
		return Event{}, ErrEventNotFound
	}
	return *event, nil
}

// CreateEvent validates and normalizes the payload, derives the slug from the
// title, and persists the record. The stored record, including its generated
// identifier, is returned.
func (s *EventServiceImpl) CreateEvent(ctx context.Context, event Event) (Event, error) {
	if err := event.Validate(); err != nil {
		metrics.ValidationFailures.Inc()
		return Event{}, err
	}
	event.Slug = Slugify(event.Title)

	stored, err := s.repo.Store(ctx, event)
	if err != nil {
		return Event{}, err
	}
	metrics.EventsCreated.Inc()
	log.Debugf("Created event %s (slug %q)", stored.ID, stored.Slug)
	return stored, nil
}

// UpdateEvent re-saves the full record. The slug is always recomputed from
// the title so a renamed event never keeps a stale slug.
func (s *EventServiceImpl) UpdateEvent(ctx context.Context, event Event) (Event, error) {
	if event.ID == uuid.Nil {
		return Event{}, ErrEventNotFound
	}
	if err := event.Validate(); err != nil {
		metrics.ValidationFailures.Inc()
		return Event{}, err
	}
	event.Slug = Slugify(event.Title)

	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return Event{}, err
	}
	if updated == nil {
		return Event{}, ErrEventNotFound
	}
	return *updated, nil
}
