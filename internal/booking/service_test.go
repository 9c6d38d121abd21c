package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/clock"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/subscription"
)

type MockBookingRepo struct{ mock.Mock }

func (m *MockBookingRepo) TryInsertConfirmedBooking(ctx context.Context, classID, userID int, periodStart, periodEnd time.Time) (*Booking, error) {
	args := m.Called(ctx, classID, userID, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingRepo) GetBooking(ctx context.Context, id int) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingRepo) GetBookingWithClass(ctx context.Context, id int) (*BookingWithClass, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BookingWithClass), args.Error(1)
}

func (m *MockBookingRepo) SetBookingCancelled(ctx context.Context, id int, cancelledAt time.Time) error {
	return m.Called(ctx, id, cancelledAt).Error(0)
}

func (m *MockBookingRepo) ListByUser(ctx context.Context, userID int) ([]BookingWithClass, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithClass), args.Error(1)
}

func (m *MockBookingRepo) ListByClass(ctx context.Context, classID int) ([]BookingWithUser, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithUser), args.Error(1)
}

func TestCreateBookingDeniedByGate(t *testing.T) {
	subRepo := new(MockSubscriptionRepo)
	classRepo := new(MockClassRepo)
	bookingRepo := new(MockBookingRepo)
	subRepo.On("GetActiveByUser", mock.Anything, 7).Return(nil, subscription.ErrSubscriptionNotFound)

	svc := NewService(bookingRepo, NewGate(subRepo, classRepo), new(MockUserRepo), nil, clock.Real{})
	_, err := svc.CreateBooking(context.Background(), 7, 3)

	assert.ErrorIs(t, err, ErrNoActiveSubscription)
	bookingRepo.AssertNotCalled(t, "TryInsertConfirmedBooking",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBookingPassesSubscriptionPeriod(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	subRepo := new(MockSubscriptionRepo)
	classRepo := new(MockClassRepo)
	bookingRepo := new(MockBookingRepo)
	subRepo.On("GetActiveByUser", mock.Anything, 7).Return(paidSubscription(start, end), nil)
	classRepo.On("GetClass", mock.Anything, 3).Return(activeClassOn(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)), nil)

	created := &Booking{ID: 42, ClassID: 3, UserID: 7, Status: StatusConfirmed}
	bookingRepo.On("TryInsertConfirmedBooking", mock.Anything, 3, 7, start, end).Return(created, nil)

	svc := NewService(bookingRepo, NewGate(subRepo, classRepo), new(MockUserRepo), nil, clock.Real{})
	booking, err := svc.CreateBooking(context.Background(), 7, 3)

	require.NoError(t, err)
	assert.Equal(t, 42, booking.ID)
	bookingRepo.AssertExpectations(t)
}

func TestCreateBookingRepoDenial(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	subRepo := new(MockSubscriptionRepo)
	classRepo := new(MockClassRepo)
	bookingRepo := new(MockBookingRepo)
	subRepo.On("GetActiveByUser", mock.Anything, 7).Return(paidSubscription(start, end), nil)
	classRepo.On("GetClass", mock.Anything, 3).Return(activeClassOn(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)), nil)
	bookingRepo.On("TryInsertConfirmedBooking", mock.Anything, 3, 7, start, end).Return(nil, ErrCapacityExceeded)

	svc := NewService(bookingRepo, NewGate(subRepo, classRepo), new(MockUserRepo), nil, clock.Real{})
	_, err := svc.CreateBooking(context.Background(), 7, 3)

	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func confirmedBookingWithClass(userID int, classDate time.Time, startTime string) *BookingWithClass {
	return &BookingWithClass{
		Booking: Booking{
			ID:      42,
			ClassID: 3,
			UserID:  userID,
			Status:  StatusConfirmed,
		},
		ClassTitle:     "Reformer",
		ClassDate:      classDate,
		ClassStartTime: startTime,
		ClassEndTime:   "11:00:00",
	}
}

func TestCancelNoticeWindow(t *testing.T) {
	classDate := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	// Class starts 2025-03-15 10:00:00 UTC.

	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"day before", time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC), nil},
		{"exactly three hours", time.Date(2025, 3, 15, 7, 0, 0, 0, time.UTC), nil},
		{"one second under", time.Date(2025, 3, 15, 7, 0, 1, 0, time.UTC), ErrTooLateToCancel},
		{"after start", time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC), ErrTooLateToCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookingRepo := new(MockBookingRepo)
			bookingRepo.On("GetBookingWithClass", mock.Anything, 42).
				Return(confirmedBookingWithClass(7, classDate, "10:00:00"), nil)
			if tt.wantErr == nil {
				bookingRepo.On("SetBookingCancelled", mock.Anything, 42, tt.now).Return(nil)
			}

			svc := NewService(bookingRepo, nil, new(MockUserRepo), nil, clock.Fixed{Instant: tt.now})
			err := svc.Cancel(context.Background(), 7, 42)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				bookingRepo.AssertNotCalled(t, "SetBookingCancelled", mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				bookingRepo.AssertExpectations(t)
			}
		})
	}
}

func TestCancelNotOwner(t *testing.T) {
	classDate := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	bookingRepo := new(MockBookingRepo)
	bookingRepo.On("GetBookingWithClass", mock.Anything, 42).
		Return(confirmedBookingWithClass(7, classDate, "10:00:00"), nil)

	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	svc := NewService(bookingRepo, nil, new(MockUserRepo), nil, clock.Fixed{Instant: now})
	err := svc.Cancel(context.Background(), 99, 42)

	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestCancelAlreadyCancelled(t *testing.T) {
	classDate := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	booking := confirmedBookingWithClass(7, classDate, "10:00:00")
	booking.Status = StatusCancelled

	bookingRepo := new(MockBookingRepo)
	bookingRepo.On("GetBookingWithClass", mock.Anything, 42).Return(booking, nil)

	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	svc := NewService(bookingRepo, nil, new(MockUserRepo), nil, clock.Fixed{Instant: now})
	err := svc.Cancel(context.Background(), 7, 42)

	// A second release of the same seat never succeeds.
	assert.ErrorIs(t, err, ErrBookingNotFound)
	bookingRepo.AssertNotCalled(t, "SetBookingCancelled", mock.Anything, mock.Anything, mock.Anything)
}

// fakeBookingRepo is an in-memory Repository with the same locking
// discipline as the SQL one: a single mutex plays the class-row lock.
type fakeBookingRepo struct {
	mu          sync.Mutex
	classDate   time.Time
	maxCapacity int
	active      bool
	nextID      int
	bookings    []Booking
}

func (f *fakeBookingRepo) TryInsertConfirmedBooking(ctx context.Context, classID, userID int, periodStart, periodEnd time.Time) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.active {
		return nil, ErrClassNotFound
	}
	if f.classDate.Before(periodStart) || f.classDate.After(periodEnd) {
		return nil, ErrOutsideSubscriptionPeriod
	}

	confirmed := 0
	for _, b := range f.bookings {
		if b.Status != StatusConfirmed {
			continue
		}
		if b.UserID == userID {
			return nil, ErrAlreadyBooked
		}
		confirmed++
	}
	if confirmed >= f.maxCapacity {
		return nil, ErrCapacityExceeded
	}

	f.nextID++
	booking := Booking{ID: f.nextID, ClassID: classID, UserID: userID, Status: StatusConfirmed}
	f.bookings = append(f.bookings, booking)
	return &booking, nil
}

func (f *fakeBookingRepo) GetBooking(ctx context.Context, id int) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id {
			copied := b
			return &copied, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeBookingRepo) GetBookingWithClass(ctx context.Context, id int) (*BookingWithClass, error) {
	booking, err := f.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BookingWithClass{
		Booking:        *booking,
		ClassDate:      f.classDate,
		ClassStartTime: "10:00:00",
	}, nil
}

func (f *fakeBookingRepo) SetBookingCancelled(ctx context.Context, id int, cancelledAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.bookings {
		if f.bookings[i].ID == id && f.bookings[i].Status == StatusConfirmed {
			f.bookings[i].Status = StatusCancelled
			f.bookings[i].CancelledAt = &cancelledAt
			return nil
		}
	}
	return ErrBookingNotFound
}

func (f *fakeBookingRepo) ListByUser(ctx context.Context, userID int) ([]BookingWithClass, error) {
	return nil, nil
}

func (f *fakeBookingRepo) ListByClass(ctx context.Context, classID int) ([]BookingWithUser, error) {
	return nil, nil
}

func (f *fakeBookingRepo) confirmedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.bookings {
		if b.Status == StatusConfirmed {
			n++
		}
	}
	return n
}

func TestCreateBookingConcurrentCapacity(t *testing.T) {
	const (
		capacity = 6
		attempts = 40
	)

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	classDate := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	subRepo := new(MockSubscriptionRepo)
	classRepo := new(MockClassRepo)
	subRepo.On("GetActiveByUser", mock.Anything, mock.AnythingOfType("int")).
		Return(paidSubscription(start, end), nil)
	classRepo.On("GetClass", mock.Anything, 3).Return(activeClassOn(classDate), nil)

	repo := &fakeBookingRepo{classDate: classDate, maxCapacity: capacity, active: true}
	svc := NewService(repo, NewGate(subRepo, classRepo), new(MockUserRepo), nil, clock.Real{})

	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			_, err := svc.CreateBooking(context.Background(), userID, 3)
			results <- err
		}(i + 1)
	}
	wg.Wait()
	close(results)

	confirmed, denied := 0, 0
	for err := range results {
		switch {
		case err == nil:
			confirmed++
		case err == ErrCapacityExceeded:
			denied++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, capacity, confirmed)
	assert.Equal(t, attempts-capacity, denied)
	assert.Equal(t, capacity, repo.confirmedCount())
}

func TestCancelFreesSeatForNextUser(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	classDate := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	subRepo := new(MockSubscriptionRepo)
	classRepo := new(MockClassRepo)
	subRepo.On("GetActiveByUser", mock.Anything, mock.AnythingOfType("int")).
		Return(paidSubscription(start, end), nil)
	classRepo.On("GetClass", mock.Anything, 3).Return(activeClassOn(classDate), nil)

	repo := &fakeBookingRepo{classDate: classDate, maxCapacity: 1, active: true}
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	svc := NewService(repo, NewGate(subRepo, classRepo), new(MockUserRepo), nil, clock.Fixed{Instant: now})

	first, err := svc.CreateBooking(context.Background(), 1, 3)
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), 2, 3)
	require.ErrorIs(t, err, ErrCapacityExceeded)

	require.NoError(t, svc.Cancel(context.Background(), 1, first.ID))

	_, err = svc.CreateBooking(context.Background(), 2, 3)
	assert.NoError(t, err)
	assert.Equal(t, 1, repo.confirmedCount())
}
