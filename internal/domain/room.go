package domain

import "time"

// MeetingRoom is the bookable resource. The core only ever reads it:
// reservation pricing resolves HourlyRate by id.
type MeetingRoom struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(128);not null" json:"name"`
	Capacity   int       `gorm:"not null" json:"capacity"`
	HourlyRate float64   `gorm:"not null" json:"hourly_rate"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (MeetingRoom) TableName() string { return "meeting_rooms" }
