package booking

import (
	"context"
	"time"

	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/clock"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/logger"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/metrics"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/user"
)

// Cancelling closer to the class start than this is refused.
const minCancelNotice = 3 * time.Hour

// Notifier queues outbound mail without blocking the request.
type Notifier interface {
	QueueBookingConfirmation(ctx context.Context, toEmail, toName, classTitle string, startsAt time.Time)
}

type Service interface {
	CreateBooking(ctx context.Context, userID, classID int) (*Booking, error)
	Cancel(ctx context.Context, userID, bookingID int) error
	ListMyBookings(ctx context.Context, userID int) ([]BookingWithClass, error)
	ListByClass(ctx context.Context, classID int) ([]BookingWithUser, error)
}

type service struct {
	repo     Repository
	gate     *Gate
	userRepo user.Repository
	notifier Notifier
	clk      clock.Clock
}

func NewService(repo Repository, gate *Gate, userRepo user.Repository, notifier Notifier, clk clock.Clock) Service {
	return &service{
		repo:     repo,
		gate:     gate,
		userRepo: userRepo,
		notifier: notifier,
		clk:      clk,
	}
}

func (s *service) CreateBooking(ctx context.Context, userID, classID int) (*Booking, error) {
	sub, err := s.gate.CanBook(ctx, userID, classID)
	if err != nil {
		recordDenial(err)
		return nil, err
	}

	// The repository re-validates everything under the class-row lock; the
	// gate result above may already be stale.
	booking, err := s.repo.TryInsertConfirmedBooking(ctx, classID, userID, sub.StartDate, sub.EndDate)
	if err != nil {
		recordDenial(err)
		return nil, err
	}

	metrics.RecordBookingConfirmed()
	logger.Infof("Booking %d confirmed: user %d, class %d", booking.ID, userID, classID)

	s.sendConfirmation(ctx, userID, booking)

	return booking, nil
}

func (s *service) Cancel(ctx context.Context, userID, bookingID int) error {
	booking, err := s.repo.GetBookingWithClass(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.Status != StatusConfirmed {
		return ErrBookingNotFound
	}
	if booking.UserID != userID {
		return ErrNotOwner
	}

	startsAt, err := booking.ClassStartsAt()
	if err != nil {
		return err
	}

	now := s.clk.Now()
	if startsAt.Sub(now) < minCancelNotice {
		return ErrTooLateToCancel
	}

	if err := s.repo.SetBookingCancelled(ctx, bookingID, now); err != nil {
		return err
	}

	metrics.RecordBookingCancellation()
	logger.Infof("Booking %d cancelled by user %d", bookingID, userID)
	return nil
}

func (s *service) ListMyBookings(ctx context.Context, userID int) ([]BookingWithClass, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListByClass(ctx context.Context, classID int) ([]BookingWithUser, error) {
	return s.repo.ListByClass(ctx, classID)
}

func (s *service) sendConfirmation(ctx context.Context, userID int, booking *Booking) {
	if s.notifier == nil {
		return
	}

	withClass, err := s.repo.GetBookingWithClass(ctx, booking.ID)
	if err != nil {
		logger.Warnf("Booking %d: could not load class for confirmation email: %v", booking.ID, err)
		return
	}

	startsAt, err := withClass.ClassStartsAt()
	if err != nil {
		logger.Warnf("Booking %d: %v", booking.ID, err)
		return
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logger.Warnf("Booking %d: could not load user for confirmation email: %v", booking.ID, err)
		return
	}

	s.notifier.QueueBookingConfirmation(ctx, u.Email, u.Name, withClass.ClassTitle, startsAt)
}

func recordDenial(err error) {
	switch err {
	case ErrNoActiveSubscription:
		metrics.RecordBookingDenied("no_active_subscription")
	case ErrPaymentPending:
		metrics.RecordBookingDenied("payment_pending")
	case ErrClassNotFound:
		metrics.RecordBookingDenied("class_not_found")
	case ErrOutsideSubscriptionPeriod:
		metrics.RecordBookingDenied("outside_subscription_period")
	case ErrCapacityExceeded:
		metrics.RecordBookingDenied("capacity_exceeded")
	case ErrAlreadyBooked:
		metrics.RecordBookingDenied("already_booked")
	}
}
