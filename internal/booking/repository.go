package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/db"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

const bookingColumns = `id, class_id, user_id, status, booked_at, cancelled_at`

func (r *repository) TryInsertConfirmedBooking(ctx context.Context, classID, userID int, periodStart, periodEnd time.Time) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, db.WrapStorage("booking.TryInsertConfirmedBooking", err)
	}
	defer tx.Rollback()

	// The row lock serializes every booking attempt on this class, so the
	// count read below stays valid through the insert. Cancellations only
	// free seats and need no lock of their own.
	var cls struct {
		Date        time.Time `db:"date"`
		MaxCapacity int       `db:"max_capacity"`
		Active      bool      `db:"active"`
	}
	err = tx.GetContext(ctx, &cls,
		`SELECT date, max_capacity, active FROM classes WHERE id = $1 FOR UPDATE`, classID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, db.WrapStorage("booking.TryInsertConfirmedBooking", err)
	}
	if !cls.Active {
		return nil, ErrClassNotFound
	}

	// Re-check the gate conditions inside the transaction; the eligibility
	// read may be stale by now.
	if cls.Date.Before(periodStart) || cls.Date.After(periodEnd) {
		return nil, ErrOutsideSubscriptionPeriod
	}

	var exists bool
	err = tx.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM bookings WHERE class_id = $1 AND user_id = $2 AND status = 'confirmed')`,
		classID, userID)
	if err != nil {
		return nil, db.WrapStorage("booking.TryInsertConfirmedBooking", err)
	}
	if exists {
		return nil, ErrAlreadyBooked
	}

	var count int
	err = tx.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM bookings WHERE class_id = $1 AND status = 'confirmed'`, classID)
	if err != nil {
		return nil, db.WrapStorage("booking.TryInsertConfirmedBooking", err)
	}
	if count >= cls.MaxCapacity {
		return nil, ErrCapacityExceeded
	}

	var booking Booking
	err = tx.GetContext(ctx, &booking,
		`INSERT INTO bookings (class_id, user_id, status) VALUES ($1, $2, 'confirmed') RETURNING `+bookingColumns,
		classID, userID)
	if err != nil {
		// The partial unique index backs the duplicate rule as well.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrAlreadyBooked
		}
		return nil, db.WrapStorage("booking.TryInsertConfirmedBooking", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, db.WrapStorage("booking.TryInsertConfirmedBooking", err)
	}

	return &booking, nil
}

func (r *repository) GetBooking(ctx context.Context, id int) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var booking Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, db.WrapStorage("booking.GetBooking", err)
	}

	return &booking, nil
}

func (r *repository) GetBookingWithClass(ctx context.Context, id int) (*BookingWithClass, error) {
	query := `
		SELECT
			b.id,
			b.class_id,
			b.user_id,
			b.status,
			b.booked_at,
			b.cancelled_at,
			c.title AS class_title,
			c.date AS class_date,
			c.start_time AS class_start_time,
			c.end_time AS class_end_time,
			c.instructor_name
		FROM bookings b
		JOIN classes c ON b.class_id = c.id
		WHERE b.id = $1
	`

	var booking BookingWithClass
	err := r.db.GetContext(ctx, &booking, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, db.WrapStorage("booking.GetBookingWithClass", err)
	}

	return &booking, nil
}

func (r *repository) SetBookingCancelled(ctx context.Context, id int, cancelledAt time.Time) error {
	query := `
		UPDATE bookings
		SET status = 'cancelled', cancelled_at = $2
		WHERE id = $1 AND status = 'confirmed'
	`

	result, err := r.db.ExecContext(ctx, query, id, cancelledAt)
	if err != nil {
		return db.WrapStorage("booking.SetBookingCancelled", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return db.WrapStorage("booking.SetBookingCancelled", err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]BookingWithClass, error) {
	query := `
		SELECT
			b.id,
			b.class_id,
			b.user_id,
			b.status,
			b.booked_at,
			b.cancelled_at,
			c.title AS class_title,
			c.date AS class_date,
			c.start_time AS class_start_time,
			c.end_time AS class_end_time,
			c.instructor_name
		FROM bookings b
		JOIN classes c ON b.class_id = c.id
		WHERE b.user_id = $1
		ORDER BY c.date DESC, c.start_time DESC
	`

	var bookings []BookingWithClass
	err := r.db.SelectContext(ctx, &bookings, query, userID)
	if err != nil {
		return nil, db.WrapStorage("booking.ListByUser", err)
	}

	return bookings, nil
}

func (r *repository) ListByClass(ctx context.Context, classID int) ([]BookingWithUser, error) {
	query := `
		SELECT
			b.id,
			b.class_id,
			b.user_id,
			b.status,
			b.booked_at,
			b.cancelled_at,
			u.name AS user_name,
			u.email AS user_email
		FROM bookings b
		JOIN users u ON b.user_id = u.id
		WHERE b.class_id = $1
		ORDER BY b.booked_at
	`

	var bookings []BookingWithUser
	err := r.db.SelectContext(ctx, &bookings, query, classID)
	if err != nil {
		return nil, db.WrapStorage("booking.ListByClass", err)
	}

	return bookings, nil
}
