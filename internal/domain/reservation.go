package domain

import "time"

type ReservationStatus string

const (
	ReservationPendingPayment ReservationStatus = "PENDING_PAYMENT"
	ReservationConfirmed      ReservationStatus = "CONFIRMED"
	ReservationCancelled      ReservationStatus = "CANCELLED"
	ReservationExpired        ReservationStatus = "EXPIRED"
)

// Reservation is one booked window on a meeting room. Version is the
// optimistic-concurrency token: every persisted mutation must bump it,
// and a write with a stale version must be rejected by the store.
type Reservation struct {
	ID          int64             `gorm:"primaryKey" json:"id"`
	RoomID      int64             `gorm:"index;not null" json:"room_id"`
	StartTime   time.Time         `gorm:"not null" json:"start_time"`
	EndTime     time.Time         `gorm:"not null" json:"end_time"`
	BookerName  string            `gorm:"type:varchar(128);not null" json:"booker_name"`
	Status      ReservationStatus `gorm:"type:varchar(20);index;default:'PENDING_PAYMENT'" json:"status"`
	TotalAmount float64           `gorm:"not null" json:"total_amount"`
	Version     int64             `gorm:"not null;default:0" json:"version"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (Reservation) TableName() string { return "reservations" }
