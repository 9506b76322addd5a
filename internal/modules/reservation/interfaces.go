package reservation

import (
	"context"
	"time"

	"roomreserve/internal/domain"
)

// ReservationStore is the versioned store behind the manager.
type ReservationStore interface {
	// Create must atomically re-check the window and reject a
	// concurrent overlapping insert with repository.ErrOverlap.
	Create(ctx context.Context, res *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	List(ctx context.Context) ([]domain.Reservation, error)
	CountOverlapping(ctx context.Context, roomID int64, start, end time.Time, excludeID int64) (int64, error)
	SaveChecked(ctx context.Context, res *domain.Reservation) error
}

// RoomCatalog resolves a room to its hourly rate; read-only.
type RoomCatalog interface {
	GetHourlyRate(ctx context.Context, roomID int64) (float64, error)
}
