package class

import (
	"fmt"
	"time"
)

// ClassSession is one scheduled class on the calendar. Date carries the
// calendar day; StartTime/EndTime are clock times in HH:MM:SS form, the way
// postgres returns TIME columns.
type ClassSession struct {
	ID             int       `db:"id" json:"id"`
	Title          string    `db:"title" json:"title"`
	Description    string    `db:"description" json:"description"`
	Date           time.Time `db:"date" json:"date"`
	StartTime      string    `db:"start_time" json:"start_time"`
	EndTime        string    `db:"end_time" json:"end_time"`
	InstructorName string    `db:"instructor_name" json:"instructor_name"`
	MaxCapacity    int       `db:"max_capacity" json:"max_capacity"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// StartsAt combines Date and StartTime into the instant the class begins.
func (cs *ClassSession) StartsAt() (time.Time, error) {
	t, err := parseClockTime(cs.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start_time %q: %w", cs.StartTime, err)
	}

	return time.Date(
		cs.Date.Year(), cs.Date.Month(), cs.Date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0,
		cs.Date.Location(),
	), nil
}

func parseClockTime(value string) (time.Time, error) {
	t, err := time.Parse("15:04:05", value)
	if err == nil {
		return t, nil
	}
	return time.Parse("15:04", value)
}

type ClassWithAvailability struct {
	ClassSession
	BookedCount int  `db:"booked_count" json:"booked_count"`
	Available   int  `json:"available"`
	IsFull      bool `json:"is_full"`
}

type CreateClassRequest struct {
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	Date           string `json:"date" binding:"required"`
	StartTime      string `json:"start_time" binding:"required,clocktime"`
	EndTime        string `json:"end_time" binding:"required,clocktime"`
	InstructorName string `json:"instructor_name" binding:"required"`
	MaxCapacity    int    `json:"max_capacity" binding:"required,min=1"`
}

type UpdateClassRequest struct {
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	Date           string `json:"date" binding:"required"`
	StartTime      string `json:"start_time" binding:"required,clocktime"`
	EndTime        string `json:"end_time" binding:"required,clocktime"`
	InstructorName string `json:"instructor_name" binding:"required"`
	MaxCapacity    int    `json:"max_capacity" binding:"required,min=1"`
}

type RemoveClassResponse struct {
	Message     string `json:"message"`
	Deactivated bool   `json:"deactivated"`
}
