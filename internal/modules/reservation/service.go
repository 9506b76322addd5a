package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roomreserve/internal/domain"
	"roomreserve/internal/repository"

	"gorm.io/gorm"
)

// Reservation windows snap to this grid.
const windowGranularity = 30 * time.Minute

type Service struct {
	reservations ReservationStore
	rooms        RoomCatalog
}

func NewService(reservations ReservationStore, rooms RoomCatalog) *Service {
	return &Service{
		reservations: reservations,
		rooms:        rooms,
	}
}

func (s *Service) Create(ctx context.Context, req CreateReservationRequest) (*domain.Reservation, error) {
	if err := validateWindow(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	overlapping, err := s.reservations.CountOverlapping(ctx, req.RoomID, req.StartTime, req.EndTime, 0)
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, fmt.Errorf("%w: room %d is already reserved in that window", ErrConflict, req.RoomID)
	}

	rate, err := s.rooms.GetHourlyRate(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: room %d", ErrNotFound, req.RoomID)
		}
		return nil, err
	}

	res := &domain.Reservation{
		RoomID:      req.RoomID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		BookerName:  req.BookerName,
		Status:      domain.ReservationPendingPayment,
		TotalAmount: billedAmount(req.StartTime, req.EndTime, rate),
	}
	if err := s.reservations.Create(ctx, res); err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			return nil, fmt.Errorf("%w: room %d is already reserved in that window", ErrConflict, req.RoomID)
		}
		return nil, err
	}
	return res, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateReservationRequest) (*domain.Reservation, error) {
	res, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status == domain.ReservationCancelled {
		return nil, fmt.Errorf("%w: reservation %d is cancelled", ErrInvalidState, id)
	}

	if err := validateWindow(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	overlapping, err := s.reservations.CountOverlapping(ctx, res.RoomID, req.StartTime, req.EndTime, id)
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, fmt.Errorf("%w: room %d is already reserved in that window", ErrConflict, res.RoomID)
	}

	rate, err := s.rooms.GetHourlyRate(ctx, res.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: room %d", ErrNotFound, res.RoomID)
		}
		return nil, err
	}

	res.StartTime = req.StartTime
	res.EndTime = req.EndTime
	res.BookerName = req.BookerName
	res.TotalAmount = billedAmount(req.StartTime, req.EndTime, rate)

	if err := s.reservations.SaveChecked(ctx, res); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			return nil, fmt.Errorf("%w: reservation %d was changed concurrently", ErrConflict, id)
		}
		if errors.Is(err, repository.ErrOverlap) {
			return nil, fmt.Errorf("%w: room %d is already reserved in that window", ErrConflict, res.RoomID)
		}
		return nil, err
	}
	return res, nil
}

// Cancel hard-fails on an already-cancelled reservation so callers can
// detect duplicate cancel attempts.
func (s *Service) Cancel(ctx context.Context, id int64) (*domain.Reservation, error) {
	res, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status == domain.ReservationCancelled {
		return nil, fmt.Errorf("%w: reservation %d is already cancelled", ErrInvalidState, id)
	}

	res.Status = domain.ReservationCancelled
	if err := s.reservations.SaveChecked(ctx, res); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			return nil, fmt.Errorf("%w: reservation %d was changed concurrently", ErrConflict, id)
		}
		return nil, err
	}
	return res, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return s.getByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Reservation, error) {
	return s.reservations.List(ctx)
}

func (s *Service) getByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reservation %d", ErrNotFound, id)
		}
		return nil, err
	}
	return res, nil
}

func validateWindow(start, end time.Time) error {
	if !start.Before(end) {
		return fmt.Errorf("%w: start must be before end", ErrInvalidWindow)
	}
	if !alignedToGrid(start) || !alignedToGrid(end) {
		return fmt.Errorf("%w: times must fall on a %s boundary", ErrInvalidWindow, windowGranularity)
	}
	return nil
}

func alignedToGrid(t time.Time) bool {
	return t.Minute()%30 == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// billedAmount rounds the duration up to whole hours: a started hour is
// billed as a full one.
func billedAmount(start, end time.Time, hourlyRate float64) float64 {
	minutes := int64(end.Sub(start) / time.Minute)
	hours := (minutes + 59) / 60
	return float64(hours) * hourlyRate
}
