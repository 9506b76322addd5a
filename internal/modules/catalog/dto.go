package catalog

import "roomreserve/internal/domain"

type CreateRoomRequest struct {
	Name       string  `json:"name" binding:"required"`
	Capacity   int     `json:"capacity" binding:"required,gt=0"`
	HourlyRate float64 `json:"hourly_rate" binding:"required,gte=0"`
}

type RoomResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Capacity   int     `json:"capacity"`
	HourlyRate float64 `json:"hourly_rate"`
}

func toResponse(r *domain.MeetingRoom) RoomResponse {
	return RoomResponse{
		ID:         r.ID,
		Name:       r.Name,
		Capacity:   r.Capacity,
		HourlyRate: r.HourlyRate,
	}
}
