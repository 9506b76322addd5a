package reservation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"roomreserve/internal/domain"
	"roomreserve/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memReservationStore is an in-memory stand-in for the GORM repository
// with the same guarantee: Create re-checks the window and the insert
// under one lock, so a check-then-insert race cannot double-book a
// room.
type memReservationStore struct {
	mu           sync.Mutex
	reservations map[int64]*domain.Reservation
	nextID       int64
	hourlyRate   float64
}

func newMemReservationStore(hourlyRate float64) *memReservationStore {
	return &memReservationStore{
		reservations: make(map[int64]*domain.Reservation),
		nextID:       1,
		hourlyRate:   hourlyRate,
	}
}

func (s *memReservationStore) overlapsLocked(roomID int64, start, end time.Time, excludeID int64) bool {
	for _, r := range s.reservations {
		if r.RoomID != roomID || r.ID == excludeID {
			continue
		}
		if r.Status != domain.ReservationPendingPayment && r.Status != domain.ReservationConfirmed {
			continue
		}
		if r.StartTime.Before(end) && r.EndTime.After(start) {
			return true
		}
	}
	return false
}

func (s *memReservationStore) Create(ctx context.Context, res *domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.overlapsLocked(res.RoomID, res.StartTime, res.EndTime, 0) {
		return repository.ErrOverlap
	}
	res.ID = s.nextID
	s.nextID++
	stored := *res
	s.reservations[stored.ID] = &stored
	return nil
}

func (s *memReservationStore) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *memReservationStore) List(ctx context.Context) ([]domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		out = append(out, *r)
	}
	return out, nil
}

func (s *memReservationStore) CountOverlapping(ctx context.Context, roomID int64, start, end time.Time, excludeID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.overlapsLocked(roomID, start, end, excludeID) {
		return 1, nil
	}
	return 0, nil
}

func (s *memReservationStore) SaveChecked(ctx context.Context, res *domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.reservations[res.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	active := res.Status == domain.ReservationPendingPayment || res.Status == domain.ReservationConfirmed
	if active && s.overlapsLocked(res.RoomID, res.StartTime, res.EndTime, res.ID) {
		return repository.ErrOverlap
	}
	if stored.Version != res.Version {
		return repository.ErrStaleVersion
	}
	cp := *res
	cp.Version++
	s.reservations[res.ID] = &cp
	res.Version++
	return nil
}

func (s *memReservationStore) GetHourlyRate(ctx context.Context, roomID int64) (float64, error) {
	return s.hourlyRate, nil
}

func TestCreate_ConcurrentSameWindowOneWinner(t *testing.T) {
	store := newMemReservationStore(15000)
	service := NewService(store, store)

	start := time.Date(2026, 12, 31, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	const callers = 20
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Create(context.Background(), CreateReservationRequest{
				RoomID:     10,
				StartTime:  start,
				EndTime:    end,
				BookerName: "Alice Kim",
			})
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		// losers see the overlap as a conflict, never a surprise failure
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("unexpected loser error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)

	all, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreate_ConcurrentDisjointWindowsAllSucceed(t *testing.T) {
	store := newMemReservationStore(15000)
	service := NewService(store, store)

	base := time.Date(2026, 12, 31, 8, 0, 0, 0, time.UTC)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := base.Add(time.Duration(i) * time.Hour)
			_, errs[i] = service.Create(context.Background(), CreateReservationRequest{
				RoomID:     10,
				StartTime:  start,
				EndTime:    start.Add(time.Hour),
				BookerName: "Alice Kim",
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "caller %d", i)
	}

	all, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, callers)
}
