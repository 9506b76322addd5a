package repository

import (
	"context"

	"roomreserve/internal/domain"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.MeetingRoom) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.MeetingRoom, error) {
	var room domain.MeetingRoom
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) List(ctx context.Context) ([]domain.MeetingRoom, error) {
	var rooms []domain.MeetingRoom
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *RoomRepository) GetHourlyRate(ctx context.Context, roomID int64) (float64, error) {
	var room domain.MeetingRoom
	if err := r.db.WithContext(ctx).Select("hourly_rate").First(&room, roomID).Error; err != nil {
		return 0, err
	}
	return room.HourlyRate, nil
}
