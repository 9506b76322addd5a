package reservation

import (
	"context"
	"testing"
	"time"

	"roomreserve/internal/domain"
	"roomreserve/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// Mock stores

type MockReservationStore struct {
	mock.Mock
}

func (m *MockReservationStore) Create(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	if res != nil {
		res.ID = 101 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockReservationStore) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationStore) List(ctx context.Context) ([]domain.Reservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationStore) CountOverlapping(ctx context.Context, roomID int64, start, end time.Time, excludeID int64) (int64, error) {
	args := m.Called(ctx, roomID, start, end, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationStore) SaveChecked(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

type MockRoomCatalog struct {
	mock.Mock
}

func (m *MockRoomCatalog) GetHourlyRate(ctx context.Context, roomID int64) (float64, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).(float64), args.Error(1)
}

func TestService_Create_Success(t *testing.T) {
	mockStore := new(MockReservationStore)
	mockRooms := new(MockRoomCatalog)

	start := time.Date(2026, 12, 31, 14, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	mockStore.On("CountOverlapping", mock.Anything, int64(10), start, end, int64(0)).Return(int64(0), nil)
	mockRooms.On("GetHourlyRate", mock.Anything, int64(10)).Return(15000.0, nil)
	mockStore.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockStore, mockRooms)

	res, err := service.Create(context.Background(), CreateReservationRequest{
		RoomID:     10,
		StartTime:  start,
		EndTime:    end,
		BookerName: "Alice Kim",
	})

	assert.NoError(t, err)
	assert.NotNil(t, res)
	assert.Equal(t, 30000.0, res.TotalAmount)
	assert.Equal(t, domain.ReservationPendingPayment, res.Status)
	assert.Equal(t, int64(0), res.Version)
	mockStore.AssertExpectations(t)
}

func TestService_Create_PartialHourBillsFull(t *testing.T) {
	mockStore := new(MockReservationStore)
	mockRooms := new(MockRoomCatalog)

	// 90 minutes on the grid is billed as 2 hours
	start := time.Date(2026, 12, 31, 14, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	mockStore.On("CountOverlapping", mock.Anything, int64(10), start, end, int64(0)).Return(int64(0), nil)
	mockRooms.On("GetHourlyRate", mock.Anything, int64(10)).Return(15000.0, nil)
	mockStore.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockStore, mockRooms)

	res, err := service.Create(context.Background(), CreateReservationRequest{
		RoomID:     10,
		StartTime:  start,
		EndTime:    end,
		BookerName: "Alice Kim",
	})

	assert.NoError(t, err)
	assert.Equal(t, 30000.0, res.TotalAmount)
}

func TestBilledAmount_HourBoundaries(t *testing.T) {
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	// exactly one hour
	assert.Equal(t, 15000.0, billedAmount(start, start.Add(60*time.Minute), 15000))
	// one minute over rounds up to two hours
	assert.Equal(t, 30000.0, billedAmount(start, start.Add(61*time.Minute), 15000))
	// half an hour is still a full hour
	assert.Equal(t, 15000.0, billedAmount(start, start.Add(30*time.Minute), 15000))
}

func TestService_Create_InvalidWindow(t *testing.T) {
	service := NewService(new(MockReservationStore), new(MockRoomCatalog))
	start := time.Date(2026, 12, 31, 14, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"end before start", start, start.Add(-time.Hour)},
		{"zero duration", start, start},
		{"start off grid", start.Add(15 * time.Minute), start.Add(2 * time.Hour)},
		{"end off grid", start, start.Add(100 * time.Minute)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), CreateReservationRequest{
				RoomID:     10,
				StartTime:  tc.start,
				EndTime:    tc.end,
				BookerName: "Alice Kim",
			})
			assert.ErrorIs(t, err, ErrInvalidWindow)
		})
	}
}

func TestService_Create_Overlap(t *testing.T) {
	mockStore := new(MockReservationStore)
	mockRooms := new(MockRoomCatalog)

	start := time.Date(2026, 12, 31, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	mockStore.On("CountOverlapping", mock.Anything, int64(10), start, end, int64(0)).Return(int64(1), nil)

	service := NewService(mockStore, mockRooms)

	_, err := service.Create(context.Background(), CreateReservationRequest{
		RoomID:     10,
		StartTime:  start,
		EndTime:    end,
		BookerName: "Alice Kim",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_Create_OverlapOnGuardedInsert(t *testing.T) {
	mockStore := new(MockReservationStore)
	mockRooms := new(MockRoomCatalog)

	start := time.Date(2026, 12, 31, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	// The advisory pre-check sees a free window, but a concurrent insert
	// wins the race and the guarded write rejects the overlap.
	mockStore.On("CountOverlapping", mock.Anything, int64(10), start, end, int64(0)).Return(int64(0), nil)
	mockRooms.On("GetHourlyRate", mock.Anything, int64(10)).Return(15000.0, nil)
	mockStore.On("Create", mock.Anything, mock.Anything).Return(repository.ErrOverlap)

	service := NewService(mockStore, mockRooms)

	_, err := service.Create(context.Background(), CreateReservationRequest{
		RoomID:     10,
		StartTime:  start,
		EndTime:    end,
		BookerName: "Alice Kim",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_Create_RoomMissing(t *testing.T) {
	mockStore := new(MockReservationStore)
	mockRooms := new(MockRoomCatalog)

	start := time.Date(2026, 12, 31, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	mockStore.On("CountOverlapping", mock.Anything, int64(77), start, end, int64(0)).Return(int64(0), nil)
	mockRooms.On("GetHourlyRate", mock.Anything, int64(77)).Return(0.0, gorm.ErrRecordNotFound)

	service := NewService(mockStore, mockRooms)

	_, err := service.Create(context.Background(), CreateReservationRequest{
		RoomID:     77,
		StartTime:  start,
		EndTime:    end,
		BookerName: "Alice Kim",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Update_Success(t *testing.T) {
	mockStore := new(MockReservationStore)
	mockRooms := new(MockRoomCatalog)

	existing := &domain.Reservation{
		ID:          5,
		RoomID:      10,
		StartTime:   time.Date(2026, 12, 31, 10, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2026, 12, 31, 11, 0, 0, 0, time.UTC),
		BookerName:  "Alice Kim",
		Status:      domain.ReservationPendingPayment,
		TotalAmount: 15000,
		Version:     2,
	}
	newStart := time.Date(2026, 12, 31, 15, 0, 0, 0, time.UTC)
	newEnd := newStart.Add(2 * time.Hour)

	mockStore.On("GetByID", mock.Anything, int64(5)).Return(existing, nil)
	mockStore.On("CountOverlapping", mock.Anything, int64(10), newStart, newEnd, int64(5)).Return(int64(0), nil)
	mockRooms.On("GetHourlyRate", mock.Anything, int64(10)).Return(15000.0, nil)
	mockStore.On("SaveChecked", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockStore, mockRooms)

	res, err := service.Update(context.Background(), 5, UpdateReservationRequest{
		StartTime:  newStart,
		EndTime:    newEnd,
		BookerName: "Bob Park",
	})

	assert.NoError(t, err)
	assert.Equal(t, newStart, res.StartTime)
	assert.Equal(t, "Bob Park", res.BookerName)
	assert.Equal(t, 30000.0, res.TotalAmount)
	mockStore.AssertExpectations(t)
}

func TestService_Update_NotFound(t *testing.T) {
	mockStore := new(MockReservationStore)
	mockStore.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockStore, new(MockRoomCatalog))

	start := time.Date(2026, 12, 31, 15, 0, 0, 0, time.UTC)
	_, err := service.Update(context.Background(), 404, UpdateReservationRequest{
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		BookerName: "Bob Park",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Update_CancelledReservation(t *testing.T) {
	mockStore := new(MockReservationStore)
	mockStore.On("GetByID", mock.Anything, int64(5)).Return(&domain.Reservation{
		ID:     5,
		RoomID: 10,
		Status: domain.ReservationCancelled,
	}, nil)

	service := NewService(mockStore, new(MockRoomCatalog))

	start := time.Date(2026, 12, 31, 15, 0, 0, 0, time.UTC)
	_, err := service.Update(context.Background(), 5, UpdateReservationRequest{
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		BookerName: "Bob Park",
	})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestService_Update_StaleVersion(t *testing.T) {
	mockStore := new(MockReservationStore)
	mockRooms := new(MockRoomCatalog)

	existing := &domain.Reservation{
		ID:      5,
		RoomID:  10,
		Status:  domain.ReservationPendingPayment,
		Version: 1,
	}
	start := time.Date(2026, 12, 31, 15, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	mockStore.On("GetByID", mock.Anything, int64(5)).Return(existing, nil)
	mockStore.On("CountOverlapping", mock.Anything, int64(10), start, end, int64(5)).Return(int64(0), nil)
	mockRooms.On("GetHourlyRate", mock.Anything, int64(10)).Return(15000.0, nil)
	mockStore.On("SaveChecked", mock.Anything, mock.Anything).Return(repository.ErrStaleVersion)

	service := NewService(mockStore, mockRooms)

	_, err := service.Update(context.Background(), 5, UpdateReservationRequest{
		StartTime:  start,
		EndTime:    end,
		BookerName: "Bob Park",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_Update_OverlapOnGuardedSave(t *testing.T) {
	mockStore := new(MockReservationStore)
	mockRooms := new(MockRoomCatalog)

	existing := &domain.Reservation{
		ID:      5,
		RoomID:  10,
		Status:  domain.ReservationPendingPayment,
		Version: 1,
	}
	start := time.Date(2026, 12, 31, 15, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	mockStore.On("GetByID", mock.Anything, int64(5)).Return(existing, nil)
	mockStore.On("CountOverlapping", mock.Anything, int64(10), start, end, int64(5)).Return(int64(0), nil)
	mockRooms.On("GetHourlyRate", mock.Anything, int64(10)).Return(15000.0, nil)
	mockStore.On("SaveChecked", mock.Anything, mock.Anything).Return(repository.ErrOverlap)

	service := NewService(mockStore, mockRooms)

	_, err := service.Update(context.Background(), 5, UpdateReservationRequest{
		StartTime:  start,
		EndTime:    end,
		BookerName: "Bob Park",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_Cancel_ThenCancelAgainFails(t *testing.T) {
	mockStore := new(MockReservationStore)

	active := &domain.Reservation{
		ID:      5,
		RoomID:  10,
		Status:  domain.ReservationPendingPayment,
		Version: 0,
	}
	mockStore.On("GetByID", mock.Anything, int64(5)).Return(active, nil).Once()
	mockStore.On("SaveChecked", mock.Anything, mock.Anything).Return(nil).Once()

	service := NewService(mockStore, new(MockRoomCatalog))

	res, err := service.Cancel(context.Background(), 5)
	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationCancelled, res.Status)

	// the second attempt must be a hard failure, not a no-op
	mockStore.On("GetByID", mock.Anything, int64(5)).Return(&domain.Reservation{
		ID:     5,
		RoomID: 10,
		Status: domain.ReservationCancelled,
	}, nil).Once()

	_, err = service.Cancel(context.Background(), 5)
	assert.ErrorIs(t, err, ErrInvalidState)
	mockStore.AssertExpectations(t)
}

func TestService_GetByID_NotFound(t *testing.T) {
	mockStore := new(MockReservationStore)
	mockStore.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockStore, new(MockRoomCatalog))

	_, err := service.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}
