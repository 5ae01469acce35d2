package confirm_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/internal/integrations/facilityservice"
	storage "github.com/m04kA/SMC-FacilityBookingService/internal/infra/storage/booking"
)

type fakeBookingRepo struct {
	byID            map[int64]*domain.Booking
	sameDay         []*domain.Booking
	updatedStatus   *domain.BookingStatus
	updateStatusErr error
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, storage.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetByFacilityWithFilter(_ context.Context, _ domain.FacilityBookingsFilter) ([]*domain.Booking, error) {
	return f.sameDay, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, _ int64, status domain.BookingStatus, _ int64) error {
	if f.updateStatusErr != nil {
		return f.updateStatusErr
	}
	f.updatedStatus = &status
	return nil
}

type fakeFacilityClient struct {
	facility *facilityservice.Facility
}

func (f *fakeFacilityClient) GetFacility(_ context.Context, _ int64) (*facilityservice.Facility, error) {
	return f.facility, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:          1,
		FacilityID:  10,
		CustomerID:  7,
		BookingDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00",
		EndTime:     "11:00",
		Status:      domain.StatusPending,
	}
}

func newTestUseCase(repo *fakeBookingRepo) *UseCase {
	return New(
		repo,
		&fakeFacilityClient{facility: &facilityservice.Facility{
			ID:         10,
			Status:     facilityservice.FacilityActive,
			ManagerIDs: []int64{99},
		}},
		fakeTxManager{},
		nopLogger{},
	)
}

func TestExecute_Confirm(t *testing.T) {
	booking := pendingBooking()
	repo := &fakeBookingRepo{
		byID:    map[int64]*domain.Booking{1: booking},
		sameDay: []*domain.Booking{booking},
	}
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 99, BookingID: 1})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, resp.Booking.Status)
	assert.Equal(t, int64(99), resp.Booking.UpdatedBy)
	require.NotNil(t, repo.updatedStatus)
	assert.Equal(t, domain.StatusConfirmed, *repo.updatedStatus)
}

func TestExecute_ConcurrentStatusChange(t *testing.T) {
	// Хранилище отклонило UPDATE по предикату статуса: строка уже не pending
	repo := &fakeBookingRepo{
		byID:            map[int64]*domain.Booking{1: pendingBooking()},
		updateStatusErr: storage.ErrStatusNotAllowed,
	}
	uc := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{UserID: 99, BookingID: 1})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Nil(t, repo.updatedStatus)
}

func TestExecute_ConflictKeepsPending(t *testing.T) {
	booking := pendingBooking()
	// Слот занят другой бронью после создания этой
	competitor := &domain.Booking{
		ID: 2, FacilityID: 10, StartTime: "10:30", EndTime: "11:30",
		Status: domain.StatusConfirmed,
	}
	repo := &fakeBookingRepo{
		byID:    map[int64]*domain.Booking{1: booking},
		sameDay: []*domain.Booking{booking, competitor},
	}
	uc := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{UserID: 99, BookingID: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotConflict)

	var conflictErr *SlotConflictError
	require.ErrorAs(t, err, &conflictErr)
	require.Len(t, conflictErr.Conflicts, 1)
	assert.Equal(t, int64(2), *conflictErr.Conflicts[0].ConflictingBookingID)

	// Статус не менялся
	assert.Nil(t, repo.updatedStatus)
	assert.Equal(t, domain.StatusPending, booking.Status)
}

func TestExecute_SelfIsNotAConflict(t *testing.T) {
	booking := pendingBooking()
	repo := &fakeBookingRepo{
		byID:    map[int64]*domain.Booking{1: booking},
		sameDay: []*domain.Booking{booking},
	}
	uc := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{UserID: 99, BookingID: 1})
	assert.NoError(t, err)
}

func TestExecute_Errors(t *testing.T) {
	t.Run("not a manager", func(t *testing.T) {
		booking := pendingBooking()
		repo := &fakeBookingRepo{byID: map[int64]*domain.Booking{1: booking}}
		uc := newTestUseCase(repo)

		_, err := uc.Execute(context.Background(), &Request{UserID: 7, BookingID: 1})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("booking not found", func(t *testing.T) {
		uc := newTestUseCase(&fakeBookingRepo{byID: map[int64]*domain.Booking{}})

		_, err := uc.Execute(context.Background(), &Request{UserID: 99, BookingID: 404})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("already confirmed", func(t *testing.T) {
		booking := pendingBooking()
		booking.Status = domain.StatusConfirmed
		repo := &fakeBookingRepo{byID: map[int64]*domain.Booking{1: booking}}
		uc := newTestUseCase(repo)

		_, err := uc.Execute(context.Background(), &Request{UserID: 99, BookingID: 1})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("cancelled cannot be confirmed", func(t *testing.T) {
		booking := pendingBooking()
		booking.Status = domain.StatusCancelled
		repo := &fakeBookingRepo{byID: map[int64]*domain.Booking{1: booking}}
		uc := newTestUseCase(repo)

		_, err := uc.Execute(context.Background(), &Request{UserID: 99, BookingID: 1})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("zero ids", func(t *testing.T) {
		uc := newTestUseCase(&fakeBookingRepo{})
		_, err := uc.Execute(context.Background(), &Request{UserID: 0, BookingID: 1})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
