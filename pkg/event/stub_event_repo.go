package event

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

type StubEventRepo struct {
	data map[uuid.UUID]Event
	now  time.Time
}

func NewStubEventRepo() *StubEventRepo {
	return &StubEventRepo{data: map[uuid.UUID]Event{}, now: time.Now()}
}

func (s *StubEventRepo) Store(ctx context.Context, event Event) (Event, error) {
	event.ID = uuid.New()
	s.now = s.now.Add(time.Second)
	event.CreatedAt = s.now
	event.UpdatedAt = s.now
	s.data[event.ID] = event
	return event, nil
}

func (s *StubEventRepo) FindAll(ctx context.Context) ([]Event, error) {
	events := make([]Event, 0, len(s.data))
	for _, event := range s.data {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date > events[j].Date
		}
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	return events, nil
}

func (s *StubEventRepo) FindBySlug(ctx context.Context, slug string) (*Event, error) {
	for _, event := range s.data {
		if event.Slug == slug {
			return &event, nil
		}
	}
	return nil, nil
}

func (s *StubEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	if event, ok := s.data[id]; ok {
		return &event, nil
	}
	return nil, nil
}

func (s *StubEventRepo) Update(ctx context.Context, event Event) (*Event, error) {
	existing, ok := s.data[event.ID]
	if !ok {
		return nil, nil
	}
	event.CreatedAt = existing.CreatedAt
	s.now = s.now.Add(time.Second)
	event.UpdatedAt = s.now
	s.data[event.ID] = event
	return &event, nil
}

func (s *StubEventRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := s.data[id]
	return ok, nil
}

func (s *StubEventRepo) Cleanup() {
	s.data = map[uuid.UUID]Event{}
}
