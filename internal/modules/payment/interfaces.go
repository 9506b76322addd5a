package payment

import (
	"context"

	"roomreserve/internal/domain"
)

type reservationStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
}

type paymentStore interface {
	GetByReservationID(ctx context.Context, reservationID int64) (*domain.Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
	// CreateGuarded must serialize on the reservation row and reject a
	// second payment for the same reservation.
	CreateGuarded(ctx context.Context, p *domain.Payment) error
	// ApplyOutcome must persist both aggregates atomically with
	// version-checked writes.
	ApplyOutcome(ctx context.Context, p *domain.Payment, res *domain.Reservation) error
}

type providerStore interface {
	GetByName(ctx context.Context, name string) (*domain.PaymentProvider, error)
}
