package class

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/clock"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/logger"
)

var ErrClassInvalid = errors.New("invalid class data")

type Service interface {
	Create(ctx context.Context, req CreateClassRequest) (*ClassSession, error)
	Update(ctx context.Context, id int, req UpdateClassRequest) (*ClassSession, error)
	// Remove hard-deletes a class with no bookings and deactivates one that
	// has any, so booking history keeps its foreign rows.
	Remove(ctx context.Context, id int) (deactivated bool, err error)
	ListUpcoming(ctx context.Context) ([]ClassWithAvailability, error)
}

type service struct {
	repo Repository
	clk  clock.Clock
}

func NewService(repo Repository, clk clock.Clock) Service {
	return &service{
		repo: repo,
		clk:  clk,
	}
}

func (s *service) Create(ctx context.Context, req CreateClassRequest) (*ClassSession, error) {
	cs, err := sessionFromRequest(req.Title, req.Description, req.Date, req.StartTime, req.EndTime, req.InstructorName, req.MaxCapacity)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateClass(ctx, cs)
	if err != nil {
		return nil, err
	}

	logger.Infof("Class %d created: %s on %s", created.ID, created.Title, created.Date.Format("2006-01-02"))
	return created, nil
}

func (s *service) Update(ctx context.Context, id int, req UpdateClassRequest) (*ClassSession, error) {
	cs, err := sessionFromRequest(req.Title, req.Description, req.Date, req.StartTime, req.EndTime, req.InstructorName, req.MaxCapacity)
	if err != nil {
		return nil, err
	}
	cs.ID = id

	return s.repo.UpdateClass(ctx, cs)
}

func (s *service) Remove(ctx context.Context, id int) (bool, error) {
	if _, err := s.repo.GetClass(ctx, id); err != nil {
		return false, err
	}

	count, err := s.repo.CountBookings(ctx, id)
	if err != nil {
		return false, err
	}

	// Any booking row, confirmed or cancelled, pins the class.
	if count > 0 {
		if err := s.repo.DeactivateClass(ctx, id); err != nil {
			return false, err
		}
		logger.Infof("Class %d deactivated, %d booking(s) on record", id, count)
		return true, nil
	}

	if err := s.repo.DeleteClass(ctx, id); err != nil {
		return false, err
	}
	logger.Infof("Class %d deleted", id)
	return false, nil
}

func (s *service) ListUpcoming(ctx context.Context) ([]ClassWithAvailability, error) {
	now := s.clk.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.repo.ListUpcomingWithAvailability(ctx, today)
}

func sessionFromRequest(title, description, date, startTime, endTime, instructor string, maxCapacity int) (*ClassSession, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrClassInvalid, date)
	}

	start, err := parseClockTime(startTime)
	if err != nil {
		return nil, fmt.Errorf("%w: bad start_time %q", ErrClassInvalid, startTime)
	}
	end, err := parseClockTime(endTime)
	if err != nil {
		return nil, fmt.Errorf("%w: bad end_time %q", ErrClassInvalid, endTime)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end_time must be after start_time", ErrClassInvalid)
	}

	if maxCapacity <= 0 {
		return nil, fmt.Errorf("%w: max_capacity must be positive", ErrClassInvalid)
	}

	return &ClassSession{
		Title:          title,
		Description:    description,
		Date:           day,
		StartTime:      start.Format("15:04:05"),
		EndTime:        end.Format("15:04:05"),
		InstructorName: instructor,
		MaxCapacity:    maxCapacity,
	}, nil
}
