package booking

import (
	"time"

	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/class"
)

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking links one user to one class session. A cancelled row is frozen;
// re-booking the same class creates a new row.
type Booking struct {
	ID          int        `db:"id" json:"id"`
	ClassID     int        `db:"class_id" json:"class_id"`
	UserID      int        `db:"user_id" json:"user_id"`
	Status      string     `db:"status" json:"status"`
	BookedAt    time.Time  `db:"booked_at" json:"booked_at"`
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
}

type BookingWithClass struct {
	Booking
	ClassTitle     string    `db:"class_title" json:"class_title"`
	ClassDate      time.Time `db:"class_date" json:"class_date"`
	ClassStartTime string    `db:"class_start_time" json:"class_start_time"`
	ClassEndTime   string    `db:"class_end_time" json:"class_end_time"`
	InstructorName string    `db:"instructor_name" json:"instructor_name"`
}

// ClassStartsAt is the instant the booked class begins.
func (b *BookingWithClass) ClassStartsAt() (time.Time, error) {
	cs := class.ClassSession{Date: b.ClassDate, StartTime: b.ClassStartTime}
	return cs.StartsAt()
}

type BookingWithUser struct {
	Booking
	UserName  string `db:"user_name" json:"user_name"`
	UserEmail string `db:"user_email" json:"user_email"`
}

type CancelBookingResponse struct {
	Message string `json:"message" example:"Booking cancelled"`
}
