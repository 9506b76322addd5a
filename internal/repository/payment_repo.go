package repository

import (
	"context"
	"errors"

	"roomreserve/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentStore struct {
	db *gorm.DB
}

func NewPaymentStore(db *gorm.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

func (s *PaymentStore) GetByReservationID(ctx context.Context, reservationID int64) (*domain.Payment, error) {
	var p domain.Payment
	if err := s.db.WithContext(ctx).Where("reservation_id = ?", reservationID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PaymentStore) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	var p domain.Payment
	if err := s.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateGuarded inserts the pending payment after serializing on the
// reservation row. The exclusive read closes the window between "no
// payment exists yet" and the insert; the unique index on reservation_id
// catches anything that gets past the lock.
func (s *PaymentStore) CreateGuarded(ctx context.Context, p *domain.Payment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res domain.Reservation
		q := tx
		// SQLite has no FOR UPDATE; its single-writer transactions cover
		// the same window.
		if tx.Dialector.Name() != "sqlite" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&res, p.ReservationID).Error; err != nil {
			return err
		}
		var existing int64
		if err := tx.Model(&domain.Payment{}).Where("reservation_id = ?", p.ReservationID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicatePayment
		}
		if err := tx.Create(p).Error; err != nil {
			return translateUniqueViolation(err)
		}
		return nil
	})
}

// ApplyOutcome persists the payment and its reservation together. Both
// writes are version-checked and land in one transaction; a stale version
// on either side rolls the whole thing back as ErrStaleVersion.
func (s *PaymentStore) ApplyOutcome(ctx context.Context, p *domain.Payment, res *domain.Reservation) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := savePaymentChecked(tx, p); err != nil {
			return err
		}
		return saveReservationChecked(tx, res)
	})
}

func savePaymentChecked(tx *gorm.DB, p *domain.Payment) error {
	result := tx.Model(&domain.Payment{}).
		Where("id = ? AND version = ?", p.ID, p.Version).
		Updates(map[string]interface{}{
			"status":         p.Status,
			"transaction_id": p.TransactionID,
			"raw_response":   p.RawResponse,
			"version":        p.Version + 1,
		})
	if result.Error != nil {
		return translateUniqueViolation(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleVersion
	}
	p.Version++
	return nil
}

func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicatePayment
	}
	return err
}
