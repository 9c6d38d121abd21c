package subscription

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/db"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

const subscriptionColumns = `id, user_id, package_id, status, start_date, end_date, payment_status, payment_date, late_fee_applied, recoveries_used, max_recoveries, created_at`

func (r *repository) CreateSubscription(ctx context.Context, sub *Subscription) (*Subscription, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, db.WrapStorage("subscription.CreateSubscription", err)
	}
	defer tx.Rollback()

	// A user holds at most one active subscription; the new one supersedes.
	_, err = tx.ExecContext(ctx,
		`UPDATE subscriptions SET status = 'cancelled' WHERE user_id = $1 AND status = 'active'`,
		sub.UserID)
	if err != nil {
		return nil, db.WrapStorage("subscription.CreateSubscription", err)
	}

	query := `
		INSERT INTO subscriptions (user_id, package_id, status, start_date, end_date, payment_status, payment_date, late_fee_applied, recoveries_used, max_recoveries)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + subscriptionColumns

	var created Subscription
	err = tx.GetContext(ctx, &created, query,
		sub.UserID, sub.PackageID, sub.Status, sub.StartDate, sub.EndDate,
		sub.PaymentStatus, sub.PaymentDate, sub.LateFeeApplied, sub.RecoveriesUsed, sub.MaxRecoveries)
	if err != nil {
		return nil, db.WrapStorage("subscription.CreateSubscription", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, db.WrapStorage("subscription.CreateSubscription", err)
	}

	return &created, nil
}

func (r *repository) GetActiveByUser(ctx context.Context, userID int) (*Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE user_id = $1 AND status = 'active'
		ORDER BY created_at DESC
		LIMIT 1
	`

	var sub Subscription
	err := r.db.GetContext(ctx, &sub, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, db.WrapStorage("subscription.GetActiveByUser", err)
	}

	return &sub, nil
}

func (r *repository) UpdatePayment(ctx context.Context, subscriptionID int, paymentDate time.Time, applyLateFee bool) (*Subscription, error) {
	query := `
		UPDATE subscriptions
		SET payment_status = 'paid', payment_date = $2, late_fee_applied = $3
		WHERE id = $1
		RETURNING ` + subscriptionColumns

	var updated Subscription
	err := r.db.GetContext(ctx, &updated, query, subscriptionID, paymentDate, applyLateFee)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, db.WrapStorage("subscription.UpdatePayment", err)
	}

	return &updated, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var subs []Subscription
	err := r.db.SelectContext(ctx, &subs, query, userID)
	if err != nil {
		return nil, db.WrapStorage("subscription.ListByUser", err)
	}

	return subs, nil
}
