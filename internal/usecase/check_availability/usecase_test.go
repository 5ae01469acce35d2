package check_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/internal/integrations/facilityservice"
	storage "github.com/m04kA/SMC-FacilityBookingService/internal/infra/storage/rules"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/ptr"
)

type fakeBookingRepo struct {
	bookings []*domain.Booking
	counts   map[string]int
}

func (f *fakeBookingRepo) GetByFacilityWithFilter(_ context.Context, _ domain.FacilityBookingsFilter) ([]*domain.Booking, error) {
	return f.bookings, nil
}

func (f *fakeBookingRepo) CountActiveByCustomer(_ context.Context, _, _ int64, from, _ time.Time) (int, error) {
	return f.counts[from.Format(domain.DateFormat)], nil
}

type fakeRulesRepo struct {
	rules *domain.BookingRules
}

func (f *fakeRulesRepo) GetWithHierarchy(_ context.Context, _ int64) (*domain.BookingRules, error) {
	if f.rules == nil {
		return nil, storage.ErrRulesNotFound
	}
	return f.rules, nil
}

type fakeFacilityClient struct {
	facility *facilityservice.Facility
	err      error
}

func (f *fakeFacilityClient) GetFacility(_ context.Context, _ int64) (*facilityservice.Facility, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.facility, nil
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func allWeekOpen(open, close string) facilityservice.WeekSchedule {
	day := facilityservice.DaySchedule{IsOpen: true, OpenTime: &open, CloseTime: &close}
	return facilityservice.WeekSchedule{
		Monday: day, Tuesday: day, Wednesday: day, Thursday: day,
		Friday: day, Saturday: day, Sunday: day,
	}
}

func activeFacility() *facilityservice.Facility {
	return &facilityservice.Facility{
		ID:           1,
		Status:       facilityservice.FacilityActive,
		Capacity:     10,
		PricePerHour: 1000,
		WorkingHours: allWeekOpen("08:00", "22:00"),
	}
}

func newTestUseCase(repo *fakeBookingRepo, facility *facilityservice.Facility) *UseCase {
	return New(
		repo,
		&fakeRulesRepo{rules: &domain.BookingRules{
			SlotGranularityMinutes: 30,
			MinDurationMinutes:     30,
			MaxDurationMinutes:     240,
		}},
		&fakeFacilityClient{facility: facility},
		fixedTime{now: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)},
		nopLogger{},
	)
}

func baseRequest() *Request {
	return &Request{
		UserID:     7,
		FacilityID: 1,
		Date:       time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		StartTime:  "10:30",
		EndTime:    "11:30",
	}
}

func TestExecute_OverlapDetected(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		{ID: 42, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed},
	}}
	uc := newTestUseCase(repo, activeFacility())

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.False(t, resp.IsValid)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, domain.ConflictBookingOverlap, resp.Conflicts[0].Type)
	require.NotNil(t, resp.Conflicts[0].ConflictingBookingID)
	assert.Equal(t, int64(42), *resp.Conflicts[0].ConflictingBookingID)
}

func TestExecute_TouchingBoundariesDoNotConflict(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		{ID: 42, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed},
	}}
	uc := newTestUseCase(repo, activeFacility())

	req := baseRequest()
	req.StartTime = "11:00"
	req.EndTime = "12:00"

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.IsValid)
	assert.Empty(t, resp.Conflicts)
}

func TestExecute_CancelledBookingFreesSlot(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		{ID: 42, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusCancelled},
	}}
	uc := newTestUseCase(repo, activeFacility())

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.True(t, resp.IsValid)
}

func TestExecute_ExcludeBookingID(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		{ID: 42, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed},
	}}
	uc := newTestUseCase(repo, activeFacility())

	req := baseRequest()
	req.StartTime = "10:00"
	req.EndTime = "11:00"
	req.ExcludeBookingID = ptr.Ptr(int64(42))

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.IsValid)
}

func TestExecute_RuleViolationsReported(t *testing.T) {
	uc := New(
		&fakeBookingRepo{},
		&fakeRulesRepo{rules: &domain.BookingRules{
			SlotGranularityMinutes: 30,
			MinNoticeMinutes:       60,
			MinDurationMinutes:     120,
			MaxDurationMinutes:     240,
		}},
		&fakeFacilityClient{facility: activeFacility()},
		// Сейчас 10:00 того же дня: часовой интервал с 10:30 нарушает
		// и min_notice, и min_duration
		fixedTime{now: time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.False(t, resp.IsValid)
	require.Len(t, resp.Conflicts, 2)
	for _, c := range resp.Conflicts {
		assert.Equal(t, domain.ConflictRuleViolation, c.Type)
	}
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, activeFacility())

	req := baseRequest()
	req.StartTime = "07:00"
	req.EndTime = "08:00"

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, resp.IsValid)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, domain.ConflictOutsideHours, resp.Conflicts[0].Type)
}

func TestExecute_HolidayClosed(t *testing.T) {
	facility := activeFacility()
	facility.Holidays = []string{"2026-09-10"}
	uc := newTestUseCase(&fakeBookingRepo{}, facility)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.False(t, resp.IsValid)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, domain.ConflictFacilityClosed, resp.Conflicts[0].Type)
}

func TestExecute_GranularityWarning(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, activeFacility())

	req := baseRequest()
	req.StartTime = "10:10"
	req.EndTime = "11:10"

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Невыровненное начало дает предупреждение, но не конфликт
	assert.True(t, resp.IsValid)
	assert.NotEmpty(t, resp.Warnings)
}

func TestExecute_ClosingTimeWarning(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, activeFacility())

	req := baseRequest()
	req.StartTime = "21:00"
	req.EndTime = "22:00"

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, resp.IsValid)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "закрытия")
}

func TestExecute_InputErrors(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, activeFacility())

	t.Run("inverted range", func(t *testing.T) {
		req := baseRequest()
		req.StartTime = "12:00"
		req.EndTime = "11:00"
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("zero length range", func(t *testing.T) {
		req := baseRequest()
		req.StartTime = "11:00"
		req.EndTime = "11:00"
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("facility not found", func(t *testing.T) {
		broken := New(&fakeBookingRepo{}, &fakeRulesRepo{}, &fakeFacilityClient{err: facilityservice.ErrFacilityNotFound},
			fixedTime{now: time.Now()}, nopLogger{})
		_, err := broken.Execute(context.Background(), baseRequest())
		assert.ErrorIs(t, err, ErrFacilityNotFound)
	})

	t.Run("inactive facility", func(t *testing.T) {
		facility := activeFacility()
		facility.Status = facilityservice.FacilityMaintenance
		inactive := newTestUseCase(&fakeBookingRepo{}, facility)
		_, err := inactive.Execute(context.Background(), baseRequest())
		assert.ErrorIs(t, err, ErrFacilityNotActive)
	})
}
