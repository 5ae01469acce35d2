package rules

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/psqlbuilder"
)

var rulesColumns = []string{
	"id",
	"facility_id",
	"slot_granularity_minutes",
	"min_notice_minutes",
	"max_advance_days",
	"min_duration_minutes",
	"max_duration_minutes",
	"max_bookings_per_day",
	"max_bookings_per_week",
	"cancellation_cutoff_hours",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с правилами бронирования
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWithHierarchy получает правила с учетом иерархии приоритетов:
// правила объекта -> глобальная строка -> ErrRulesNotFound
// (дефолты на отсутствие строк накладывает вызывающая сторона)
func (r *Repository) GetWithHierarchy(ctx context.Context, facilityID int64) (*domain.BookingRules, error) {
	rules, err := r.GetByFacility(ctx, facilityID)
	if err == nil {
		return rules, nil
	}
	if err != ErrRulesNotFound {
		return nil, err
	}

	return r.GetGlobal(ctx)
}

// GetByFacility получает правила конкретного объекта
func (r *Repository) GetByFacility(ctx context.Context, facilityID int64) (*domain.BookingRules, error) {
	return r.getOne(ctx, squirrel.Eq{"facility_id": facilityID}, "GetByFacility")
}

// GetGlobal получает глобальную строку правил (facility_id IS NULL)
func (r *Repository) GetGlobal(ctx context.Context) (*domain.BookingRules, error) {
	return r.getOne(ctx, squirrel.Eq{"facility_id": nil}, "GetGlobal")
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq, op string) (*domain.BookingRules, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(rulesColumns...).
		From("booking_rules").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var rules domain.BookingRules
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rules.ID,
		&rules.FacilityID,
		&rules.SlotGranularityMinutes,
		&rules.MinNoticeMinutes,
		&rules.MaxAdvanceDays,
		&rules.MinDurationMinutes,
		&rules.MaxDurationMinutes,
		&rules.MaxBookingsPerDay,
		&rules.MaxBookingsPerWeek,
		&rules.CancellationCutoffHours,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrRulesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan rules: %v", ErrScanRow, op, err)
	}

	rules.CreatedAt = createdAt.Time
	rules.UpdatedAt = updatedAt.Time

	return &rules, nil
}

// Upsert создает или обновляет правила объекта (PUT-семантика)
// Для глобальной строки FacilityID = nil
func (r *Repository) Upsert(ctx context.Context, rules *domain.BookingRules) (*domain.BookingRules, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_rules").
		Columns(
			"facility_id",
			"slot_granularity_minutes",
			"min_notice_minutes",
			"max_advance_days",
			"min_duration_minutes",
			"max_duration_minutes",
			"max_bookings_per_day",
			"max_bookings_per_week",
			"cancellation_cutoff_hours",
		).
		Values(
			rules.FacilityID,
			rules.SlotGranularityMinutes,
			rules.MinNoticeMinutes,
			rules.MaxAdvanceDays,
			rules.MinDurationMinutes,
			rules.MaxDurationMinutes,
			rules.MaxBookingsPerDay,
			rules.MaxBookingsPerWeek,
			rules.CancellationCutoffHours,
		).
		Suffix(`ON CONFLICT (facility_id) DO UPDATE SET
			slot_granularity_minutes = EXCLUDED.slot_granularity_minutes,
			min_notice_minutes = EXCLUDED.min_notice_minutes,
			max_advance_days = EXCLUDED.max_advance_days,
			min_duration_minutes = EXCLUDED.min_duration_minutes,
			max_duration_minutes = EXCLUDED.max_duration_minutes,
			max_bookings_per_day = EXCLUDED.max_bookings_per_day,
			max_bookings_per_week = EXCLUDED.max_bookings_per_week,
			cancellation_cutoff_hours = EXCLUDED.cancellation_cutoff_hours,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rules.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	rules.CreatedAt = createdAt.Time
	rules.UpdatedAt = updatedAt.Time

	return rules, nil
}

// Delete удаляет правила объекта, возвращая его на глобальные правила
func (r *Repository) Delete(ctx context.Context, facilityID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_rules").
		Where(squirrel.Eq{"facility_id": facilityID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRulesNotFound
	}

	return nil
}
