package class

import (
	"context"
	"time"
)

type Repository interface {
	CreateClass(ctx context.Context, cs *ClassSession) (*ClassSession, error)
	GetClass(ctx context.Context, id int) (*ClassSession, error)
	UpdateClass(ctx context.Context, cs *ClassSession) (*ClassSession, error)
	DeactivateClass(ctx context.Context, id int) error
	DeleteClass(ctx context.Context, id int) error
	CountBookings(ctx context.Context, classID int) (int, error)
	ListUpcomingWithAvailability(ctx context.Context, from time.Time) ([]ClassWithAvailability, error)
}
