package repository

import (
	"context"
	"time"

	"roomreserve/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create inserts the reservation only if no active reservation overlaps
// its window. The check and the insert run in one transaction serialized
// on the room row, so two concurrent creates for the same window cannot
// both pass the check; the loser gets ErrOverlap.
func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoom(tx, res.RoomID); err != nil {
			return err
		}
		cnt, err := countOverlapping(tx, res.RoomID, res.StartTime, res.EndTime, 0)
		if err != nil {
			return err
		}
		if cnt > 0 {
			return ErrOverlap
		}
		return tx.Create(res).Error
	})
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := r.db.WithContext(ctx).First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepository) List(ctx context.Context) ([]domain.Reservation, error) {
	var out []domain.Reservation
	if err := r.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CountOverlapping is the advisory pre-check used for early rejection;
// the guarded writes repeat it under the room lock.
func (r *ReservationRepository) CountOverlapping(ctx context.Context, roomID int64, start, end time.Time, excludeID int64) (int64, error) {
	return countOverlapping(r.db.WithContext(ctx), roomID, start, end, excludeID)
}

// countOverlapping counts reservations on the room whose [start,end)
// window intersects the given one. Only PENDING_PAYMENT and CONFIRMED
// rows occupy their window; excludeID (when non-zero) removes the
// reservation being updated from its own conflict set.
func countOverlapping(tx *gorm.DB, roomID int64, start, end time.Time, excludeID int64) (int64, error) {
	var cnt int64
	q := tx.
		Model(&domain.Reservation{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", []domain.ReservationStatus{domain.ReservationPendingPayment, domain.ReservationConfirmed}).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}

// SaveChecked persists a mutated reservation only if its version is still
// the one that was read, bumping the version on success. A lost race
// surfaces as ErrStaleVersion with nothing written. When the reservation
// stays active its window is re-validated under the room lock, so a
// rescheduling update cannot slide onto a concurrently created
// reservation.
func (r *ReservationRepository) SaveChecked(ctx context.Context, res *domain.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if res.Status == domain.ReservationPendingPayment || res.Status == domain.ReservationConfirmed {
			if err := lockRoom(tx, res.RoomID); err != nil {
				return err
			}
			cnt, err := countOverlapping(tx, res.RoomID, res.StartTime, res.EndTime, res.ID)
			if err != nil {
				return err
			}
			if cnt > 0 {
				return ErrOverlap
			}
		}
		return saveReservationChecked(tx, res)
	})
}

// lockRoom serializes reservation writes per room. SQLite has no FOR
// UPDATE; its single-writer transactions cover the same window.
func lockRoom(tx *gorm.DB, roomID int64) error {
	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var room domain.MeetingRoom
	return q.Select("id").First(&room, roomID).Error
}

func saveReservationChecked(tx *gorm.DB, res *domain.Reservation) error {
	result := tx.Model(&domain.Reservation{}).
		Where("id = ? AND version = ?", res.ID, res.Version).
		Updates(map[string]interface{}{
			"start_time":   res.StartTime,
			"end_time":     res.EndTime,
			"booker_name":  res.BookerName,
			"status":       res.Status,
			"total_amount": res.TotalAmount,
			"version":      res.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleVersion
	}
	res.Version++
	return nil
}
