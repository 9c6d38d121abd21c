package booking

import (
	"context"
	"time"
)

type Repository interface {
	// TryInsertConfirmedBooking creates a confirmed booking only if, at
	// commit time, the class is still active and within the given
	// subscription period, the user holds no confirmed booking for it, and
	// the confirmed count is below max_capacity. All four checks and the
	// insert are one atomic unit; a plain count-then-insert would race.
	TryInsertConfirmedBooking(ctx context.Context, classID, userID int, periodStart, periodEnd time.Time) (*Booking, error)
	GetBooking(ctx context.Context, id int) (*Booking, error)
	GetBookingWithClass(ctx context.Context, id int) (*BookingWithClass, error)
	// SetBookingCancelled flips a confirmed booking to cancelled and stamps
	// cancelled_at. Returns ErrBookingNotFound if no confirmed row matched,
	// so releasing the same seat twice cannot succeed twice.
	SetBookingCancelled(ctx context.Context, id int, cancelledAt time.Time) error
	ListByUser(ctx context.Context, userID int) ([]BookingWithClass, error)
	ListByClass(ctx context.Context, classID int) ([]BookingWithUser, error)
}
