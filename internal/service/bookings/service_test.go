package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/internal/integrations/facilityservice"
	bookingstorage "github.com/m04kA/SMC-FacilityBookingService/internal/infra/storage/booking"
	rulesstorage "github.com/m04kA/SMC-FacilityBookingService/internal/infra/storage/rules"
	"github.com/m04kA/SMC-FacilityBookingService/internal/service/bookings/models"
)

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking

	updatedStatus   *domain.BookingStatus
	updateStatusErr error
	cancelled       bool
	cancelReason    string
	cancelPayment   domain.PaymentStatus
	cancelErr       error
	deleted         bool
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{}}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingstorage.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetByCustomerID(_ context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.CustomerID != customerID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) GetByFacilityWithFilter(_ context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.FacilityID != filter.FacilityID {
			continue
		}
		if !filter.IncludeInactive && !b.IsActive() {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus, _ int64) error {
	if f.updateStatusErr != nil {
		return f.updateStatusErr
	}
	if _, ok := f.bookings[id]; !ok {
		return bookingstorage.ErrBookingNotFound
	}
	f.updatedStatus = &status
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string, _ int64, paymentStatus domain.PaymentStatus) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	if _, ok := f.bookings[id]; !ok {
		return bookingstorage.ErrBookingNotFound
	}
	f.cancelled = true
	f.cancelReason = reason
	f.cancelPayment = paymentStatus
	return nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.bookings[id]; !ok {
		return bookingstorage.ErrBookingNotFound
	}
	f.deleted = true
	return nil
}

type fakeRulesRepo struct {
	rules *domain.BookingRules
}

func (f *fakeRulesRepo) GetWithHierarchy(_ context.Context, _ int64) (*domain.BookingRules, error) {
	if f.rules == nil {
		return nil, rulesstorage.ErrRulesNotFound
	}
	return f.rules, nil
}

type fakeFacilityClient struct {
	facility *facilityservice.Facility
}

func (f *fakeFacilityClient) GetFacility(_ context.Context, _ int64) (*facilityservice.Facility, error) {
	if f.facility == nil {
		return nil, facilityservice.ErrFacilityNotFound
	}
	return f.facility, nil
}

type fakeMetrics struct {
	cancelledBy []string
}

func (f *fakeMetrics) IncBookingCancelled(by string) {
	f.cancelledBy = append(f.cancelledBy, by)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const (
	ownerID   = int64(7)
	managerID = int64(99)
	otherID   = int64(500)
)

// Сейчас в тестах: 2026-09-10 12:00 UTC
var testNow = time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

func testBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:            1,
		FacilityID:    10,
		CustomerID:    ownerID,
		BookingDate:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		StartTime:     "10:00",
		EndTime:       "11:00",
		Participants:  2,
		Status:        status,
		PaymentStatus: domain.PaymentPending,
	}
}

func testFacility() *facilityservice.Facility {
	return &facilityservice.Facility{
		ID:         10,
		Status:     facilityservice.FacilityActive,
		ManagerIDs: []int64{managerID},
	}
}

type env struct {
	repo    *fakeBookingRepo
	rules   *fakeRulesRepo
	metrics *fakeMetrics
	svc     *Service
}

func newEnv(now time.Time, bookings ...*domain.Booking) *env {
	e := &env{
		repo:    newFakeBookingRepo(bookings...),
		rules:   &fakeRulesRepo{},
		metrics: &fakeMetrics{},
	}
	e.svc = New(e.repo, e.rules, &fakeFacilityClient{facility: testFacility()}, e.metrics,
		fixedTime{now: now}, nopLogger{})
	return e
}

func TestGetByID_Access(t *testing.T) {
	e := newEnv(testNow, testBooking(domain.StatusConfirmed))

	t.Run("owner", func(t *testing.T) {
		b, err := e.svc.GetByID(context.Background(), ownerID, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), b.ID)
	})

	t.Run("manager", func(t *testing.T) {
		_, err := e.svc.GetByID(context.Background(), managerID, 1)
		assert.NoError(t, err)
	})

	t.Run("stranger", func(t *testing.T) {
		_, err := e.svc.GetByID(context.Background(), otherID, 1)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := e.svc.GetByID(context.Background(), ownerID, 404)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestGetUserBookings(t *testing.T) {
	e := newEnv(testNow, testBooking(domain.StatusConfirmed))

	t.Run("self", func(t *testing.T) {
		result, err := e.svc.GetUserBookings(context.Background(), models.UserBookingsQuery{
			UserID:       ownerID,
			TargetUserID: ownerID,
		})
		require.NoError(t, err)
		assert.Len(t, result, 1)
	})

	t.Run("foreign list denied", func(t *testing.T) {
		_, err := e.svc.GetUserBookings(context.Background(), models.UserBookingsQuery{
			UserID:       managerID,
			TargetUserID: ownerID,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("status filter", func(t *testing.T) {
		pending := domain.StatusPending
		result, err := e.svc.GetUserBookings(context.Background(), models.UserBookingsQuery{
			UserID:       ownerID,
			TargetUserID: ownerID,
			Status:       &pending,
		})
		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("unknown status", func(t *testing.T) {
		bad := domain.BookingStatus("archived")
		_, err := e.svc.GetUserBookings(context.Background(), models.UserBookingsQuery{
			UserID:       ownerID,
			TargetUserID: ownerID,
			Status:       &bad,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestGetFacilityBookings(t *testing.T) {
	cancelled := testBooking(domain.StatusCancelled)
	cancelled.ID = 2

	e := newEnv(testNow, testBooking(domain.StatusConfirmed), cancelled)

	t.Run("manager only", func(t *testing.T) {
		_, err := e.svc.GetFacilityBookings(context.Background(), models.FacilityBookingsQuery{
			UserID:     ownerID,
			FacilityID: 10,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("active by default", func(t *testing.T) {
		result, err := e.svc.GetFacilityBookings(context.Background(), models.FacilityBookingsQuery{
			UserID:     managerID,
			FacilityID: 10,
		})
		require.NoError(t, err)
		assert.Len(t, result, 1)
	})

	t.Run("include inactive", func(t *testing.T) {
		result, err := e.svc.GetFacilityBookings(context.Background(), models.FacilityBookingsQuery{
			UserID:          managerID,
			FacilityID:      10,
			IncludeInactive: true,
		})
		require.NoError(t, err)
		assert.Len(t, result, 2)
	})

	t.Run("inverted date range", func(t *testing.T) {
		start := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, -1)
		_, err := e.svc.GetFacilityBookings(context.Background(), models.FacilityBookingsQuery{
			UserID:     managerID,
			FacilityID: 10,
			StartDate:  &start,
			EndDate:    &end,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestCancel_Owner(t *testing.T) {
	e := newEnv(testNow, testBooking(domain.StatusConfirmed))

	b, err := e.svc.Cancel(context.Background(), models.CancelRequest{
		UserID:    ownerID,
		BookingID: 1,
		Reason:    "  планы изменились  ",
	})
	require.NoError(t, err)

	assert.True(t, e.repo.cancelled)
	assert.Equal(t, "планы изменились", e.repo.cancelReason)
	assert.Equal(t, domain.StatusCancelled, b.Status)
	require.NotNil(t, b.CancelledAt)
	assert.Equal(t, testNow, *b.CancelledAt)
	require.NotNil(t, b.CancelledBy)
	assert.Equal(t, ownerID, *b.CancelledBy)
	assert.Equal(t, []string{"customer"}, e.metrics.cancelledBy)
}

func TestCancel_ReasonRequired(t *testing.T) {
	e := newEnv(testNow, testBooking(domain.StatusConfirmed))

	_, err := e.svc.Cancel(context.Background(), models.CancelRequest{
		UserID:    ownerID,
		BookingID: 1,
		Reason:    "   ",
	})
	assert.ErrorIs(t, err, ErrReasonRequired)
	assert.False(t, e.repo.cancelled)
}

func TestCancel_CutoffEnforcedForOwner(t *testing.T) {
	// До начала брони (12.09 10:00) меньше 48 часов
	e := newEnv(testNow, testBooking(domain.StatusConfirmed))
	e.rules.rules = &domain.BookingRules{CancellationCutoffHours: 48}

	_, err := e.svc.Cancel(context.Background(), models.CancelRequest{
		UserID:    ownerID,
		BookingID: 1,
		Reason:    "поздно",
	})
	assert.ErrorIs(t, err, ErrCancellationCutoff)
	assert.False(t, e.repo.cancelled)
}

func TestCancel_ManagerBypassesCutoff(t *testing.T) {
	e := newEnv(testNow, testBooking(domain.StatusConfirmed))
	e.rules.rules = &domain.BookingRules{CancellationCutoffHours: 48}

	_, err := e.svc.Cancel(context.Background(), models.CancelRequest{
		UserID:    managerID,
		BookingID: 1,
		Reason:    "ремонт зала",
	})
	require.NoError(t, err)
	assert.True(t, e.repo.cancelled)
	assert.Equal(t, []string{"manager"}, e.metrics.cancelledBy)
}

func TestCancel_PaidBookingRefunded(t *testing.T) {
	booking := testBooking(domain.StatusConfirmed)
	booking.PaymentStatus = domain.PaymentPaid

	e := newEnv(testNow, booking)

	b, err := e.svc.Cancel(context.Background(), models.CancelRequest{
		UserID:    ownerID,
		BookingID: 1,
		Reason:    "возврат",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRefunded, e.repo.cancelPayment)
	assert.Equal(t, domain.PaymentRefunded, b.PaymentStatus)
}

func TestCancel_TerminalStatuses(t *testing.T) {
	for _, status := range []domain.BookingStatus{
		domain.StatusCompleted, domain.StatusCancelled, domain.StatusNoShow,
	} {
		t.Run(string(status), func(t *testing.T) {
			e := newEnv(testNow, testBooking(status))
			_, err := e.svc.Cancel(context.Background(), models.CancelRequest{
				UserID:    ownerID,
				BookingID: 1,
				Reason:    "причина",
			})
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestCancel_ConcurrentTransition(t *testing.T) {
	// Конкурентная отмена или подтверждение успели изменить статус:
	// хранилище не нашло строку в допустимом исходном статусе
	e := newEnv(testNow, testBooking(domain.StatusPending))
	e.repo.cancelErr = bookingstorage.ErrStatusNotAllowed

	_, err := e.svc.Cancel(context.Background(), models.CancelRequest{
		UserID:    ownerID,
		BookingID: 1,
		Reason:    "планы изменились",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestComplete(t *testing.T) {
	t.Run("after end time", func(t *testing.T) {
		// Сейчас 13.09, бронь закончилась 12.09 в 11:00
		e := newEnv(testNow.AddDate(0, 0, 3), testBooking(domain.StatusConfirmed))

		b, err := e.svc.Complete(context.Background(), managerID, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, b.Status)
		require.NotNil(t, e.repo.updatedStatus)
		assert.Equal(t, domain.StatusCompleted, *e.repo.updatedStatus)
	})

	t.Run("before end time", func(t *testing.T) {
		e := newEnv(testNow, testBooking(domain.StatusConfirmed))

		_, err := e.svc.Complete(context.Background(), managerID, 1)
		assert.ErrorIs(t, err, ErrBookingNotFinished)
		assert.Nil(t, e.repo.updatedStatus)
	})

	t.Run("pending cannot be completed", func(t *testing.T) {
		e := newEnv(testNow.AddDate(0, 0, 3), testBooking(domain.StatusPending))

		_, err := e.svc.Complete(context.Background(), managerID, 1)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("owner is not enough", func(t *testing.T) {
		e := newEnv(testNow.AddDate(0, 0, 3), testBooking(domain.StatusConfirmed))

		_, err := e.svc.Complete(context.Background(), ownerID, 1)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("concurrent transition detected by storage", func(t *testing.T) {
		// Между чтением и UPDATE другой переход изменил статус:
		// хранилище возвращает отказ по предикату статуса
		e := newEnv(testNow.AddDate(0, 0, 3), testBooking(domain.StatusConfirmed))
		e.repo.updateStatusErr = bookingstorage.ErrStatusNotAllowed

		_, err := e.svc.Complete(context.Background(), managerID, 1)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestMarkNoShow(t *testing.T) {
	t.Run("after start time", func(t *testing.T) {
		// Сейчас 12.09 10:30, бронь началась в 10:00
		now := time.Date(2026, 9, 12, 10, 30, 0, 0, time.UTC)
		e := newEnv(now, testBooking(domain.StatusConfirmed))

		b, err := e.svc.MarkNoShow(context.Background(), managerID, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusNoShow, b.Status)
	})

	t.Run("before start time", func(t *testing.T) {
		e := newEnv(testNow, testBooking(domain.StatusConfirmed))

		_, err := e.svc.MarkNoShow(context.Background(), managerID, 1)
		assert.ErrorIs(t, err, ErrBookingNotStarted)
	})
}

func TestDelete(t *testing.T) {
	t.Run("manager deletes pending", func(t *testing.T) {
		e := newEnv(testNow, testBooking(domain.StatusPending))

		err := e.svc.Delete(context.Background(), managerID, 1)
		require.NoError(t, err)
		assert.True(t, e.repo.deleted)
	})

	t.Run("owner denied", func(t *testing.T) {
		e := newEnv(testNow, testBooking(domain.StatusPending))

		err := e.svc.Delete(context.Background(), ownerID, 1)
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.False(t, e.repo.deleted)
	})

	t.Run("completed is kept for history", func(t *testing.T) {
		e := newEnv(testNow, testBooking(domain.StatusCompleted))

		err := e.svc.Delete(context.Background(), managerID, 1)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestCancel_InvalidInput(t *testing.T) {
	e := newEnv(testNow, testBooking(domain.StatusConfirmed))

	longReason := make([]byte, domain.MaxCancellationReasonLength+1)
	for i := range longReason {
		longReason[i] = 'a'
	}

	tests := []struct {
		name    string
		req     models.CancelRequest
		wantErr error
	}{
		{"zero user", models.CancelRequest{UserID: 0, BookingID: 1, Reason: "x"}, ErrInvalidInput},
		{"stranger", models.CancelRequest{UserID: otherID, BookingID: 1, Reason: "x"}, ErrAccessDenied},
		{"reason too long", models.CancelRequest{UserID: ownerID, BookingID: 1, Reason: string(longReason)}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.Cancel(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.False(t, e.repo.cancelled)
}
