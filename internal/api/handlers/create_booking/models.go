package create_booking

import "github.com/m04kA/SMC-FacilityBookingService/internal/api/handlers"

// Request тело запроса на создание бронирования
type Request struct {
	CustomerID *int64 `json:"customer_id,omitempty"`
	FacilityID int64  `json:"facility_id"`

	Date      string `json:"date"`       // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM

	Participants int     `json:"participants"`
	Notes        *string `json:"notes,omitempty"`

	IsRecurring       bool    `json:"is_recurring,omitempty"`
	RecurrencePattern *string `json:"recurrence_pattern,omitempty"`
	RecurrenceEnd     *string `json:"recurrence_end,omitempty"` // YYYY-MM-DD
}

// SkippedView пропущенная дата серии с причиной
type SkippedView struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// Response созданное бронирование и результат разворачивания серии
type Response struct {
	Booking   handlers.BookingView   `json:"booking"`
	Instances []handlers.BookingView `json:"instances,omitempty"`
	Skipped   []SkippedView          `json:"skipped_occurrences,omitempty"`
}

// ConflictResponse тело ответа 409 со списком конфликтов
type ConflictResponse struct {
	Message   string                  `json:"message"`
	Conflicts []handlers.ConflictView `json:"conflicts"`
}
