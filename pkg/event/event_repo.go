package event

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Pool hands out the shared database handle, connecting lazily on first use.
type Pool interface {
	Acquire(ctx context.Context) (*sql.DB, error)
}

type EventRepository interface {
	Store(ctx context.Context, event Event) (Event, error)
	FindAll(ctx context.Context) ([]Event, error)
	FindBySlug(ctx context.Context, slug string) (*Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)
	Update(ctx context.Context, event Event) (*Event, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type EventRepositoryImpl struct {
	pool Pool
}

func NewEventRepo(pool Pool) *EventRepositoryImpl {
	return &EventRepositoryImpl{pool: pool}
}

const eventColumns = "id, title, description, overview, image, venue, location, event_date, event_time, mode, audience, agenda, organizer, tags, slug, created_at, updated_at"

// Store persists a new Event and returns it with its generated identifier and
// store-managed timestamps filled in.
func (r *EventRepositoryImpl) Store(ctx context.Context, event Event) (Event, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return Event{}, err
	}

	agenda, tags, err := marshalLists(event)
	if err != nil {
		return Event{}, err
	}

	event.ID = uuid.New()
	query := `INSERT INTO events (id, title, description, overview, image, venue, location, event_date, event_time, mode, audience, agenda, organizer, tags, slug)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at`
	row := db.QueryRowContext(ctx, query,
		event.ID, event.Title, event.Description, event.Overview, event.Image, event.Venue,
		event.Location, event.Date, event.Time, string(event.Mode), event.Audience,
		agenda, event.Organizer, tags, event.Slug,
	)
	if err := row.Scan(&event.CreatedAt, &event.UpdatedAt); err != nil {
		err := fmt.Errorf("could not store event: %w", err)
		log.Error(err)
		return Event{}, err
	}

	return event, nil
}

// FindAll returns every event, newest event date first.
func (r *EventRepositoryImpl) FindAll(ctx context.Context) ([]Event, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + eventColumns + " FROM events ORDER BY event_date DESC, created_at DESC"
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not list events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *EventRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*Event, error) {
	return r.findOne(ctx, "slug = $1", slug)
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *EventRepositoryImpl) findOne(ctx context.Context, where string, arg any) (*Event, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + eventColumns + " FROM events WHERE " + where
	row := db.QueryRowContext(ctx, query, arg)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// Update re-saves the full event record. Returns nil when no event with the
// given ID exists.
func (r *EventRepositoryImpl) Update(ctx context.Context, event Event) (*Event, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	agenda, tags, err := marshalLists(event)
	if err != nil {
		return nil, err
	}

	query := `UPDATE events
		SET title = $2, description = $3, overview = $4, image = $5, venue = $6, location = $7,
			event_date = $8, event_time = $9, mode = $10, audience = $11, agenda = $12,
			organizer = $13, tags = $14, slug = $15, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`
	row := db.QueryRowContext(ctx, query,
		event.ID, event.Title, event.Description, event.Overview, event.Image, event.Venue,
		event.Location, event.Date, event.Time, string(event.Mode), event.Audience,
		agenda, event.Organizer, tags, event.Slug,
	)
	if err := row.Scan(&event.CreatedAt, &event.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		err := fmt.Errorf("could not update event: %w", err)
		log.Error(err)
		return nil, err
	}
	return &event, nil
}

// Exists reports whether an event with the given ID is stored.
func (r *EventRepositoryImpl) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, err
	}

	var one int
	err = db.QueryRowContext(ctx, "SELECT 1 FROM events WHERE id = $1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		err := fmt.Errorf("could not check event existence: %w", err)
		log.Error(err)
		return false, err
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (Event, error) {
	var event Event
	var mode string
	var agenda, tags []byte
	err := row.Scan(
		&event.ID, &event.Title, &event.Description, &event.Overview, &event.Image,
		&event.Venue, &event.Location, &event.Date, &event.Time, &mode, &event.Audience,
		&agenda, &event.Organizer, &tags, &event.Slug, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Event{}, err
		}
		err := fmt.Errorf("could not scan event row: %w", err)
		log.Error(err)
		return Event{}, err
	}
	event.Mode = Mode(mode)
	if err := json.Unmarshal(agenda, &event.Agenda); err != nil {
		return Event{}, fmt.Errorf("could not decode agenda: %w", err)
	}
	if err := json.Unmarshal(tags, &event.Tags); err != nil {
		return Event{}, fmt.Errorf("could not decode tags: %w", err)
	}
	return event, nil
}

// Agenda and tags are stored as JSONB columns.
func marshalLists(event Event) ([]byte, []byte, error) {
	agenda, err := json.Marshal(event.Agenda)
	if err != nil {
		return nil, nil, fmt.Errorf("could not encode agenda: %w", err)
	}
	tags, err := json.Marshal(event.Tags)
	if err != nil {
		return nil, nil, fmt.Errorf("could not encode tags: %w", err)
	}
	return agenda, tags, nil
}
