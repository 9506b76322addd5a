package domain

import "time"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentSuccess  PaymentStatus = "SUCCESS"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentCanceled PaymentStatus = "CANCELED"
)

// Terminal reports whether the status may never change again.
// SUCCESS and FAILED are final; CANCELED is not (a provider can still
// report the definitive outcome of a cancelled instrument).
func (s PaymentStatus) Terminal() bool {
	return s == PaymentSuccess || s == PaymentFailed
}

// Payment is the single payment attempt for a reservation. The unique
// index on ReservationID is the last line of defense against two
// concurrent ProcessPayment calls both inserting; TransactionID is
// unique once the provider assigns it.
type Payment struct {
	ID            int64         `gorm:"primaryKey" json:"id"`
	ReservationID int64         `gorm:"uniqueIndex;not null" json:"reservation_id"`
	Provider      string        `gorm:"type:varchar(64);not null" json:"provider"`
	Status        PaymentStatus `gorm:"type:varchar(20);index;default:'PENDING'" json:"status"`
	Amount        float64       `gorm:"not null" json:"amount"`
	TransactionID string        `gorm:"uniqueIndex;type:varchar(64)" json:"transaction_id"`
	RawResponse   string        `gorm:"type:text" json:"-"`
	Version       int64         `gorm:"not null;default:0" json:"version"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

// PaymentProvider is read-only reference data resolved by name before a
// gateway is looked up.
type PaymentProvider struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;type:varchar(64);not null" json:"name"`
	Endpoint  string    `gorm:"type:varchar(255)" json:"endpoint"`
	APIKey    string    `gorm:"type:varchar(128)" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (PaymentProvider) TableName() string { return "payment_providers" }
