package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/internal/integrations/facilityservice"
	storage "github.com/m04kA/SMC-FacilityBookingService/internal/infra/storage/rules"
	"github.com/m04kA/SMC-FacilityBookingService/internal/service/rules/models"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/ptr"
)

type fakeRulesRepo struct {
	byFacility *domain.BookingRules
	global     *domain.BookingRules

	upserted *domain.BookingRules
	deleted  bool
}

func (f *fakeRulesRepo) GetByFacility(_ context.Context, _ int64) (*domain.BookingRules, error) {
	if f.byFacility == nil {
		return nil, storage.ErrRulesNotFound
	}
	return f.byFacility, nil
}

func (f *fakeRulesRepo) GetGlobal(_ context.Context) (*domain.BookingRules, error) {
	if f.global == nil {
		return nil, storage.ErrRulesNotFound
	}
	return f.global, nil
}

func (f *fakeRulesRepo) Upsert(_ context.Context, rules *domain.BookingRules) (*domain.BookingRules, error) {
	f.upserted = rules
	return rules, nil
}

func (f *fakeRulesRepo) Delete(_ context.Context, _ int64) error {
	if f.byFacility == nil {
		return storage.ErrRulesNotFound
	}
	f.deleted = true
	return nil
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

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const managerID = int64(99)

func testFacility() *facilityservice.Facility {
	return &facilityservice.Facility{
		ID:         10,
		Status:     facilityservice.FacilityActive,
		ManagerIDs: []int64{managerID},
	}
}

func validUpdate() models.UpdateRequest {
	return models.UpdateRequest{
		UserID:                  managerID,
		FacilityID:              10,
		SlotGranularityMinutes:  60,
		MinNoticeMinutes:        120,
		MaxAdvanceDays:          30,
		MinDurationMinutes:      60,
		MaxDurationMinutes:      180,
		MaxBookingsPerDay:       2,
		MaxBookingsPerWeek:      5,
		CancellationCutoffHours: 24,
	}
}

func TestGetEffective_Hierarchy(t *testing.T) {
	facilityRules := &domain.BookingRules{ID: 1, FacilityID: ptr.Ptr(int64(10)), SlotGranularityMinutes: 15}
	globalRules := &domain.BookingRules{ID: 2, SlotGranularityMinutes: 60}

	t.Run("facility row wins", func(t *testing.T) {
		svc := New(&fakeRulesRepo{byFacility: facilityRules, global: globalRules},
			&fakeFacilityClient{facility: testFacility()}, nopLogger{})

		eff, err := svc.GetEffective(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, models.ScopeFacility, eff.Scope)
		assert.Equal(t, 15, eff.Rules.SlotGranularityMinutes)
	})

	t.Run("global fallback", func(t *testing.T) {
		svc := New(&fakeRulesRepo{global: globalRules},
			&fakeFacilityClient{facility: testFacility()}, nopLogger{})

		eff, err := svc.GetEffective(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, models.ScopeGlobal, eff.Scope)
		assert.Equal(t, 60, eff.Rules.SlotGranularityMinutes)
	})

	t.Run("compiled defaults", func(t *testing.T) {
		svc := New(&fakeRulesRepo{}, &fakeFacilityClient{facility: testFacility()}, nopLogger{})

		eff, err := svc.GetEffective(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, models.ScopeDefault, eff.Scope)
		assert.Equal(t, domain.DefaultSlotGranularityMinutes, eff.Rules.SlotGranularityMinutes)
	})
}

func TestUpsert(t *testing.T) {
	t.Run("manager saves rules", func(t *testing.T) {
		repo := &fakeRulesRepo{}
		svc := New(repo, &fakeFacilityClient{facility: testFacility()}, nopLogger{})

		saved, err := svc.Upsert(context.Background(), validUpdate())
		require.NoError(t, err)

		require.NotNil(t, repo.upserted)
		require.NotNil(t, saved.FacilityID)
		assert.Equal(t, int64(10), *saved.FacilityID)
		assert.Equal(t, 60, saved.SlotGranularityMinutes)
	})

	t.Run("non-manager denied", func(t *testing.T) {
		svc := New(&fakeRulesRepo{}, &fakeFacilityClient{facility: testFacility()}, nopLogger{})

		req := validUpdate()
		req.UserID = 7
		_, err := svc.Upsert(context.Background(), req)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("facility not found", func(t *testing.T) {
		svc := New(&fakeRulesRepo{}, &fakeFacilityClient{}, nopLogger{})

		_, err := svc.Upsert(context.Background(), validUpdate())
		assert.ErrorIs(t, err, ErrFacilityNotFound)
	})
}

func TestUpsert_Bounds(t *testing.T) {
	svc := New(&fakeRulesRepo{}, &fakeFacilityClient{facility: testFacility()}, nopLogger{})

	tests := []struct {
		name   string
		mutate func(*models.UpdateRequest)
	}{
		{"granularity too small", func(r *models.UpdateRequest) { r.SlotGranularityMinutes = 1 }},
		{"granularity too large", func(r *models.UpdateRequest) { r.SlotGranularityMinutes = 500 }},
		{"negative notice", func(r *models.UpdateRequest) { r.MinNoticeMinutes = -1 }},
		{"notice above week", func(r *models.UpdateRequest) { r.MinNoticeMinutes = 20000 }},
		{"advance above year", func(r *models.UpdateRequest) { r.MaxAdvanceDays = 400 }},
		{"zero min duration", func(r *models.UpdateRequest) { r.MinDurationMinutes = 0 }},
		{"min above max duration", func(r *models.UpdateRequest) { r.MinDurationMinutes = 200; r.MaxDurationMinutes = 100 }},
		{"negative daily quota", func(r *models.UpdateRequest) { r.MaxBookingsPerDay = -1 }},
		{"negative cutoff", func(r *models.UpdateRequest) { r.CancellationCutoffHours = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validUpdate()
			tt.mutate(&req)
			_, err := svc.Upsert(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestDelete(t *testing.T) {
	t.Run("manager deletes facility rules", func(t *testing.T) {
		repo := &fakeRulesRepo{byFacility: &domain.BookingRules{ID: 1}}
		svc := New(repo, &fakeFacilityClient{facility: testFacility()}, nopLogger{})

		err := svc.Delete(context.Background(), managerID, 10)
		require.NoError(t, err)
		assert.True(t, repo.deleted)
	})

	t.Run("nothing to delete", func(t *testing.T) {
		svc := New(&fakeRulesRepo{}, &fakeFacilityClient{facility: testFacility()}, nopLogger{})

		err := svc.Delete(context.Background(), managerID, 10)
		assert.ErrorIs(t, err, ErrRulesNotFound)
	})

	t.Run("non-manager denied", func(t *testing.T) {
		svc := New(&fakeRulesRepo{byFacility: &domain.BookingRules{ID: 1}},
			&fakeFacilityClient{facility: testFacility()}, nopLogger{})

		err := svc.Delete(context.Background(), 7, 10)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}
