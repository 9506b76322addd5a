package payment

import "roomreserve/internal/domain"

type ProcessPaymentRequest struct {
	ReservationID int64  `json:"reservation_id" binding:"required" example:"123"`
	Provider      string `json:"provider" binding:"required" example:"Card"`
}

type ProcessPaymentResponse struct {
	PaymentID         int64                    `json:"payment_id"`
	ReservationID     int64                    `json:"reservation_id"`
	Amount            float64                  `json:"amount"`
	Provider          string                   `json:"provider"`
	Status            domain.PaymentStatus     `json:"status"`
	TransactionID     string                   `json:"transaction_id"`
	ReservationStatus domain.ReservationStatus `json:"reservation_status"`
}

// WebhookPayload is what a provider posts back after the fact. Status
// uses the wire vocabulary PENDING|SUCCESS|FAILED|CANCELLED and is
// matched case-sensitively.
type WebhookPayload struct {
	TransactionID string  `json:"transactionId" binding:"required" example:"CARD_a1b2c3d4"`
	Status        string  `json:"status" binding:"required" example:"SUCCESS"`
	Amount        float64 `json:"amount" example:"30000"`
}

type PaymentStatusResponse struct {
	ReservationID int64                `json:"reservation_id"`
	Status        domain.PaymentStatus `json:"status"`
}

func toProcessResponse(p *domain.Payment, res *domain.Reservation) *ProcessPaymentResponse {
	return &ProcessPaymentResponse{
		PaymentID:         p.ID,
		ReservationID:     p.ReservationID,
		Amount:            p.Amount,
		Provider:          p.Provider,
		Status:            p.Status,
		TransactionID:     p.TransactionID,
		ReservationStatus: res.Status,
	}
}
