package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/catalog"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/clock"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/logger"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/metrics"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/user"
)

var ErrPackageNotFound = errors.New("package not found")

const (
	// Payment still pending after this day of the month counts as late.
	lateFeeDay = 10
	// Late surcharge, percent of the package price.
	lateFeeSurchargePct = 20
)

// Notifier queues outbound mail without blocking the request.
type Notifier interface {
	QueuePaymentReceipt(ctx context.Context, toEmail, toName string, amountCents int64, paymentDate time.Time)
}

type Service interface {
	Activate(ctx context.Context, userID, packageID int, startDate time.Time) (*Subscription, error)
	RecordPayment(ctx context.Context, subscriptionID int, paymentDate time.Time, applyLateFee bool) (*Subscription, error)
	MySubscription(ctx context.Context, userID int) (*SubscriptionView, error)
	ListForUser(ctx context.Context, userID int) ([]Subscription, error)
}

type service struct {
	repo        Repository
	catalogRepo catalog.Repository
	userRepo    user.Repository
	notifier    Notifier
	clk         clock.Clock
}

func NewService(repo Repository, catalogRepo catalog.Repository, userRepo user.Repository, notifier Notifier, clk clock.Clock) Service {
	return &service{
		repo:        repo,
		catalogRepo: catalogRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		clk:         clk,
	}
}

// Activate opens a one-month billing period starting at startDate. The
// repository supersedes any prior active subscription of the user inside
// the same transaction, so the one-active-per-user invariant holds no
// matter what the admin screen thinks the current state is.
func (s *service) Activate(ctx context.Context, userID, packageID int, startDate time.Time) (*Subscription, error) {
	pkg, err := s.catalogRepo.GetActivePackage(ctx, packageID)
	if err != nil {
		if errors.Is(err, catalog.ErrPackageNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}

	sub := &Subscription{
		UserID:         userID,
		PackageID:      pkg.ID,
		Status:         StatusActive,
		StartDate:      startDate,
		EndDate:        AddOneMonthClamped(startDate),
		PaymentStatus:  PaymentPending,
		LateFeeApplied: false,
		RecoveriesUsed: 0,
		MaxRecoveries:  1,
	}

	created, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, err
	}

	metrics.RecordSubscriptionActivated()
	logger.Infof("Subscription %d activated for user %d, period %s to %s",
		created.ID, userID,
		created.StartDate.Format("2006-01-02"), created.EndDate.Format("2006-01-02"))
	return created, nil
}

// RecordPayment marks the subscription paid. Re-running with the same
// arguments is a no-op in effect; concurrent calls with different
// applyLateFee values resolve last-write-wins at the column level.
func (s *service) RecordPayment(ctx context.Context, subscriptionID int, paymentDate time.Time, applyLateFee bool) (*Subscription, error) {
	updated, err := s.repo.UpdatePayment(ctx, subscriptionID, paymentDate, applyLateFee)
	if err != nil {
		return nil, err
	}

	metrics.RecordPayment(applyLateFee)
	logger.Infof("Payment recorded for subscription %d (late fee: %v)", subscriptionID, applyLateFee)

	s.sendReceipt(ctx, updated)

	return updated, nil
}

func (s *service) sendReceipt(ctx context.Context, sub *Subscription) {
	if s.notifier == nil || sub.PaymentDate == nil {
		return
	}

	pkg, err := s.catalogRepo.GetPackage(ctx, sub.PackageID)
	if err != nil {
		logger.Warnf("Subscription %d: could not load package for receipt: %v", sub.ID, err)
		return
	}

	u, err := s.userRepo.FindByID(ctx, sub.UserID)
	if err != nil {
		logger.Warnf("Subscription %d: could not load user for receipt: %v", sub.ID, err)
		return
	}

	amount := pkg.PriceCents
	if sub.LateFeeApplied {
		amount += pkg.PriceCents * lateFeeSurchargePct / 100
	}

	s.notifier.QueuePaymentReceipt(ctx, u.Email, u.Name, amount, *sub.PaymentDate)
}

func (s *service) MySubscription(ctx context.Context, userID int) (*SubscriptionView, error) {
	sub, err := s.repo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	pkg, err := s.catalogRepo.GetPackage(ctx, sub.PackageID)
	if err != nil {
		return nil, err
	}

	return &SubscriptionView{
		Subscription: *sub,
		Package:      pkg,
		PaymentState: ComputePaymentState(sub, pkg.PriceCents, s.clk.Now()),
	}, nil
}

func (s *service) ListForUser(ctx context.Context, userID int) ([]Subscription, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ComputePaymentState derives the payment view for a subscription at a
// given instant. Pure: it never writes, and "late" only exists here until
// an admin records the payment with the surcharge flag.
func ComputePaymentState(sub *Subscription, priceCents int64, now time.Time) PaymentState {
	if sub.PaymentStatus == PaymentPaid {
		return PaymentState{Status: ViewPaid, DisplayAmountCents: priceCents}
	}

	if now.Day() > lateFeeDay {
		return PaymentState{
			Status:             ViewLate,
			DisplayAmountCents: priceCents + priceCents*lateFeeSurchargePct/100,
		}
	}

	return PaymentState{Status: ViewPending, DisplayAmountCents: priceCents}
}

// AddOneMonthClamped moves a date forward one calendar month, keeping the
// day of month and clamping to the last day when the target month is
// shorter (Jan 31 -> Feb 28, or Feb 29 in a leap year).
func AddOneMonthClamped(d time.Time) time.Time {
	firstOfNext := time.Date(d.Year(), d.Month()+1, 1, 0, 0, 0, 0, d.Location())
	lastDay := firstOfNext.AddDate(0, 1, -1).Day()

	day := d.Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(firstOfNext.Year(), firstOfNext.Month(), day, 0, 0, 0, 0, d.Location())
}
