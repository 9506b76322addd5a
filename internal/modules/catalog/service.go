package catalog

import (
	"context"
	"errors"
	"fmt"

	"roomreserve/internal/domain"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("room not found")

// RoomStore is the persistence surface for the room catalog.
type RoomStore interface {
	Create(ctx context.Context, room *domain.MeetingRoom) error
	GetByID(ctx context.Context, id int64) (*domain.MeetingRoom, error)
	List(ctx context.Context) ([]domain.MeetingRoom, error)
}

type Service struct {
	rooms RoomStore
}

func NewService(rooms RoomStore) *Service {
	return &Service{rooms: rooms}
}

func (s *Service) Create(ctx context.Context, req CreateRoomRequest) (*domain.MeetingRoom, error) {
	room := &domain.MeetingRoom{
		Name:       req.Name,
		Capacity:   req.Capacity,
		HourlyRate: req.HourlyRate,
		IsActive:   true,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.MeetingRoom, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: room %d", ErrNotFound, id)
		}
		return nil, err
	}
	return room, nil
}

func (s *Service) List(ctx context.Context) ([]domain.MeetingRoom, error) {
	return s.rooms.List(ctx)
}
