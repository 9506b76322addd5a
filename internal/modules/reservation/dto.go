package reservation

import (
	"time"

	"roomreserve/internal/domain"
)

type CreateReservationRequest struct {
	RoomID     int64     `json:"room_id" binding:"required"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
	BookerName string    `json:"booker_name" binding:"required"`
}

type UpdateReservationRequest struct {
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
	BookerName string    `json:"booker_name" binding:"required"`
}

type ReservationResponse struct {
	ID          int64                    `json:"id"`
	RoomID      int64                    `json:"room_id"`
	StartTime   time.Time                `json:"start_time"`
	EndTime     time.Time                `json:"end_time"`
	BookerName  string                   `json:"booker_name"`
	Status      domain.ReservationStatus `json:"status"`
	TotalAmount float64                  `json:"total_amount"`
}

func toResponse(r *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:          r.ID,
		RoomID:      r.RoomID,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		BookerName:  r.BookerName,
		Status:      r.Status,
		TotalAmount: r.TotalAmount,
	}
}
