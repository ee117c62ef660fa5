package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Pool hands out the shared database handle, connecting lazily on first use.
type Pool interface {
	Acquire(ctx context.Context) (*sql.DB, error)
}

type BookingRepository interface {
	Store(ctx context.Context, booking Booking) (Booking, error)
	FindByEvent(ctx context.Context, eventID uuid.UUID) ([]Booking, error)
	FindByEmail(ctx context.Context, email string) ([]Booking, error)
}

type BookingRepositoryImpl struct {
	pool Pool
}

func NewBookingRepo(pool Pool) *BookingRepositoryImpl {
	return &BookingRepositoryImpl{pool: pool}
}

// Store inserts a booking. The uniq_event_email constraint makes the insert
// the single point of truth for duplicates: when two requests race past the
// application-level checks, the database rejects the second one and the
// violation surfaces as ErrAlreadyBooked. A foreign key violation means the
// referenced event disappeared between check and insert and surfaces as
// ErrEventNotFound.
func (r *BookingRepositoryImpl) Store(ctx context.Context, booking Booking) (Booking, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return Booking{}, err
	}

	booking.ID = uuid.New()
	query := `INSERT INTO bookings (id, event_id, email) VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`
	row := db.QueryRowContext(ctx, query, booking.ID, booking.EventID, booking.Email)
	if err := row.Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return Booking{}, ErrAlreadyBooked
			case pgForeignKeyViolation:
				return Booking{}, ErrEventNotFound
			}
		}
		err := fmt.Errorf("could not store booking: %w", err)
		log.Error(err)
		return Booking{}, err
	}

	return booking, nil
}

// FindByEvent returns the bookings for one event, most recent first.
func (r *BookingRepositoryImpl) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]Booking, error) {
	return r.findAll(ctx, "event_id = $1", eventID)
}

// FindByEmail returns one address's booking history, most recent first.
func (r *BookingRepositoryImpl) FindByEmail(ctx context.Context, email string) ([]Booking, error) {
	return r.findAll(ctx, "email = $1", NormalizeEmail(email))
}

func (r *BookingRepositoryImpl) findAll(ctx context.Context, where string, arg any) ([]Booking, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	query := "SELECT id, event_id, email, created_at, updated_at FROM bookings WHERE " + where + " ORDER BY created_at DESC"
	rows, err := db.QueryContext(ctx, query, arg)
	if err != nil {
		err := fmt.Errorf("could not list bookings: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	bookings := make([]Booking, 0)
	for rows.Next() {
		var booking Booking
		if err := rows.Scan(&booking.ID, &booking.EventID, &booking.Email, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
			err := fmt.Errorf("could not scan booking row: %w", err)
			log.Error(err)
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}
