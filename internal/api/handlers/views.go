package handlers

import (
	"time"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
)

// BookingView представление бронирования в ответах API
type BookingView struct {
	ID              int64   `json:"id"`
	FacilityID      int64   `json:"facility_id"`
	CustomerID      int64   `json:"customer_id"`
	BookingDate     string  `json:"booking_date"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	DurationMinutes int     `json:"duration_minutes"`
	Participants    int     `json:"participants"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"payment_status"`
	PricePerHour    float64 `json:"price_per_hour"`
	TotalAmount     float64 `json:"total_amount"`

	IsRecurring       bool    `json:"is_recurring"`
	RecurrencePattern *string `json:"recurrence_pattern,omitempty"`
	RecurrenceEnd     *string `json:"recurrence_end,omitempty"`
	ParentBookingID   *int64  `json:"parent_booking_id,omitempty"`

	CustomerName *string `json:"customer_name,omitempty"`
	Notes        *string `json:"notes,omitempty"`

	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        *int64     `json:"cancelled_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBookingView собирает представление из доменной модели
func NewBookingView(b *domain.Booking) BookingView {
	view := BookingView{
		ID:                 b.ID,
		FacilityID:         b.FacilityID,
		CustomerID:         b.CustomerID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		DurationMinutes:    b.DurationMinutes,
		Participants:       b.Participants,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		PricePerHour:       b.PricePerHour,
		TotalAmount:        b.TotalAmount,
		IsRecurring:        b.IsRecurring,
		ParentBookingID:    b.ParentBookingID,
		CustomerName:       b.CustomerName,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CancelledBy:        b.CancelledBy,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.RecurrencePattern != nil {
		pattern := string(*b.RecurrencePattern)
		view.RecurrencePattern = &pattern
	}
	if b.RecurrenceEnd != nil {
		end := b.RecurrenceEnd.Format(domain.DateFormat)
		view.RecurrenceEnd = &end
	}
	return view
}

// NewBookingViews собирает список представлений
func NewBookingViews(bookings []*domain.Booking) []BookingView {
	views := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, NewBookingView(b))
	}
	return views
}

// ConflictView представление конфликта доступности
type ConflictView struct {
	ConflictingBookingID *int64 `json:"conflicting_booking_id,omitempty"`
	ConflictType         string `json:"conflict_type"`
	Message              string `json:"message"`
}

// NewConflictViews собирает список представлений конфликтов
func NewConflictViews(conflicts []domain.Conflict) []ConflictView {
	views := make([]ConflictView, 0, len(conflicts))
	for _, c := range conflicts {
		views = append(views, ConflictView{
			ConflictingBookingID: c.ConflictingBookingID,
			ConflictType:         string(c.Type),
			Message:              c.Message,
		})
	}
	return views
}

// RulesView представление правил бронирования
type RulesView struct {
	FacilityID              *int64 `json:"facility_id,omitempty"`
	SlotGranularityMinutes  int    `json:"slot_granularity_minutes"`
	MinNoticeMinutes        int    `json:"min_notice_minutes"`
	MaxAdvanceDays          int    `json:"max_advance_days"`
	MinDurationMinutes      int    `json:"min_duration_minutes"`
	MaxDurationMinutes      int    `json:"max_duration_minutes"`
	MaxBookingsPerDay       int    `json:"max_bookings_per_day"`
	MaxBookingsPerWeek      int    `json:"max_bookings_per_week"`
	CancellationCutoffHours int    `json:"cancellation_cutoff_hours"`
}

// NewRulesView собирает представление правил
func NewRulesView(r *domain.BookingRules) RulesView {
	return RulesView{
		FacilityID:              r.FacilityID,
		SlotGranularityMinutes:  r.SlotGranularityMinutes,
		MinNoticeMinutes:        r.MinNoticeMinutes,
		MaxAdvanceDays:          r.MaxAdvanceDays,
		MinDurationMinutes:      r.MinDurationMinutes,
		MaxDurationMinutes:      r.MaxDurationMinutes,
		MaxBookingsPerDay:       r.MaxBookingsPerDay,
		MaxBookingsPerWeek:      r.MaxBookingsPerWeek,
		CancellationCutoffHours: r.CancellationCutoffHours,
	}
}
