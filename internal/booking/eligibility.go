package booking

import (
	"context"
	"errors"

	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/class"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/subscription"
)

// Gate decides whether a user may book a class at all. Pure reads; the
// same conditions are re-validated inside the booking transaction because
// subscription state can change between check and commit.
type Gate struct {
	subscriptionRepo subscription.Repository
	classRepo        class.Repository
}

func NewGate(subscriptionRepo subscription.Repository, classRepo class.Repository) *Gate {
	return &Gate{
		subscriptionRepo: subscriptionRepo,
		classRepo:        classRepo,
	}
}

// CanBook returns the user's active subscription when booking is allowed,
// or the first failing denial. The order is fixed: subscription existence,
// payment, class existence, period.
func (g *Gate) CanBook(ctx context.Context, userID, classID int) (*subscription.Subscription, error) {
	sub, err := g.subscriptionRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			return nil, ErrNoActiveSubscription
		}
		return nil, err
	}

	if sub.PaymentStatus != subscription.PaymentPaid {
		return nil, ErrPaymentPending
	}

	cs, err := g.classRepo.GetClass(ctx, classID)
	if err != nil {
		if errors.Is(err, class.ErrClassNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	if !cs.Active {
		return nil, ErrClassNotFound
	}

	// Period bounds are inclusive on both ends.
	if cs.Date.Before(sub.StartDate) || cs.Date.After(sub.EndDate) {
		return nil, ErrOutsideSubscriptionPeriod
	}

	return sub, nil
}
