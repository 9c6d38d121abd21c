package booking

import "errors"

// Business-rule denials. Each one is an expected outcome the handler turns
// into a specific message; infrastructure faults travel separately as
// db.StorageError and must never collapse into one of these.
var (
	ErrNoActiveSubscription      = errors.New("no active subscription")
	ErrPaymentPending            = errors.New("subscription payment pending")
	ErrClassNotFound             = errors.New("class not found")
	ErrOutsideSubscriptionPeriod = errors.New("class outside subscription period")
	ErrCapacityExceeded          = errors.New("class is full")
	ErrAlreadyBooked             = errors.New("already booked for this class")
	ErrBookingNotFound           = errors.New("booking not found")
	ErrNotOwner                  = errors.New("booking belongs to another user")
	ErrTooLateToCancel           = errors.New("too late to cancel")
)
