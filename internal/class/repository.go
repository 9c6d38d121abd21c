package class

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/db"
)

var ErrClassNotFound = errors.New("class not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) CreateClass(ctx context.Context, cs *ClassSession) (*ClassSession, error) {
	query := `
		INSERT INTO classes (title, description, date, start_time, end_time, instructor_name, max_capacity, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true)
		RETURNING id, title, description, date, start_time, end_time, instructor_name, max_capacity, active, created_at
	`

	var created ClassSession
	err := r.db.GetContext(ctx, &created, query,
		cs.Title, cs.Description, cs.Date, cs.StartTime, cs.EndTime, cs.InstructorName, cs.MaxCapacity)
	if err != nil {
		return nil, db.WrapStorage("class.CreateClass", err)
	}

	return &created, nil
}

func (r *repository) GetClass(ctx context.Context, id int) (*ClassSession, error) {
	query := `
		SELECT id, title, description, date, start_time, end_time, instructor_name, max_capacity, active, created_at
		FROM classes
		WHERE id = $1
	`

	var cs ClassSession
	err := r.db.GetContext(ctx, &cs, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, db.WrapStorage("class.GetClass", err)
	}

	return &cs, nil
}

func (r *repository) UpdateClass(ctx context.Context, cs *ClassSession) (*ClassSession, error) {
	query := `
		UPDATE classes
		SET title = $2, description = $3, date = $4, start_time = $5, end_time = $6, instructor_name = $7, max_capacity = $8
		WHERE id = $1
		RETURNING id, title, description, date, start_time, end_time, instructor_name, max_capacity, active, created_at
	`

	var updated ClassSession
	err := r.db.GetContext(ctx, &updated, query,
		cs.ID, cs.Title, cs.Description, cs.Date, cs.StartTime, cs.EndTime, cs.InstructorName, cs.MaxCapacity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, db.WrapStorage("class.UpdateClass", err)
	}

	return &updated, nil
}

func (r *repository) DeactivateClass(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE classes SET active = false WHERE id = $1`, id)
	if err != nil {
		return db.WrapStorage("class.DeactivateClass", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return db.WrapStorage("class.DeactivateClass", err)
	}
	if rowsAffected == 0 {
		return ErrClassNotFound
	}

	return nil
}

func (r *repository) DeleteClass(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return db.WrapStorage("class.DeleteClass", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return db.WrapStorage("class.DeleteClass", err)
	}
	if rowsAffected == 0 {
		return ErrClassNotFound
	}

	return nil
}

func (r *repository) CountBookings(ctx context.Context, classID int) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE class_id = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, classID)
	if err != nil {
		return 0, db.WrapStorage("class.CountBookings", err)
	}

	return count, nil
}

func (r *repository) ListUpcomingWithAvailability(ctx context.Context, from time.Time) ([]ClassWithAvailability, error) {
	query := `
		SELECT
			c.id,
			c.title,
			c.description,
			c.date,
			c.start_time,
			c.end_time,
			c.instructor_name,
			c.max_capacity,
			c.active,
			c.created_at,
			COUNT(b.id) FILTER (WHERE b.status = 'confirmed') AS booked_count
		FROM classes c
		LEFT JOIN bookings b ON b.class_id = c.id
		WHERE c.active = true AND c.date >= $1
		GROUP BY c.id
		ORDER BY c.date, c.start_time
	`

	var classes []ClassWithAvailability
	err := r.db.SelectContext(ctx, &classes, query, from)
	if err != nil {
		return nil, db.WrapStorage("class.ListUpcomingWithAvailability", err)
	}

	for i := range classes {
		classes[i].Available = classes[i].MaxCapacity - classes[i].BookedCount
		classes[i].IsFull = classes[i].Available <= 0
	}

	return classes, nil
}
