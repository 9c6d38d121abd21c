package subscription

import (
	"time"

	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/catalog"
)

type Status string

type PaymentStatus string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"

	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Subscription is one user's billing and access grant for a single
// calendar month. A cancelled row is never reactivated; a new activation
// supersedes it.
type Subscription struct {
	ID             int           `db:"id" json:"id"`
	UserID         int           `db:"user_id" json:"user_id"`
	PackageID      int           `db:"package_id" json:"package_id"`
	Status         Status        `db:"status" json:"status"`
	StartDate      time.Time     `db:"start_date" json:"start_date"`
	EndDate        time.Time     `db:"end_date" json:"end_date"`
	PaymentStatus  PaymentStatus `db:"payment_status" json:"payment_status"`
	PaymentDate    *time.Time    `db:"payment_date" json:"payment_date,omitempty"`
	LateFeeApplied bool          `db:"late_fee_applied" json:"late_fee_applied"`
	RecoveriesUsed int           `db:"recoveries_used" json:"recoveries_used"`
	MaxRecoveries  int           `db:"max_recoveries" json:"max_recoveries"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
}

// ViewStatus is the computed payment state shown to staff. "late" is a
// view, never a stored value: nothing persists until a payment is recorded.
type ViewStatus string

const (
	ViewPaid    ViewStatus = "paid"
	ViewPending ViewStatus = "pending"
	ViewLate    ViewStatus = "late"
)

type PaymentState struct {
	Status             ViewStatus `json:"status"`
	DisplayAmountCents int64      `json:"display_amount_cents"`
}

type SubscriptionView struct {
	Subscription Subscription     `json:"subscription"`
	Package      *catalog.Package `json:"package"`
	PaymentState PaymentState     `json:"payment_state"`
}

type ActivateRequest struct {
	UserID    int    `json:"user_id" binding:"required"`
	PackageID int    `json:"package_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
}

type RecordPaymentRequest struct {
	PaymentDate  string `json:"payment_date" binding:"required"`
	ApplyLateFee bool   `json:"apply_late_fee"`
}
