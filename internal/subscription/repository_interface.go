package subscription

import (
	"context"
	"time"
)

type Repository interface {
	// CreateSubscription inserts and, in the same transaction, cancels any
	// prior active subscription of the same user.
	CreateSubscription(ctx context.Context, sub *Subscription) (*Subscription, error)
	GetActiveByUser(ctx context.Context, userID int) (*Subscription, error)
	UpdatePayment(ctx context.Context, subscriptionID int, paymentDate time.Time, applyLateFee bool) (*Subscription, error)
	ListByUser(ctx context.Context, userID int) ([]Subscription, error)
}
