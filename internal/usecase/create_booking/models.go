package create_booking

import (
	"time"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/types"
)

// Request параметры создания бронирования
// CustomerID может отличаться от UserID только когда создатель - менеджер
// объекта (создание брони от имени клиента)
type Request struct {
	UserID     int64
	CustomerID *int64
	FacilityID int64

	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString

	Participants int
	Notes        *string

	IsRecurring       bool
	RecurrencePattern *domain.RecurrencePattern
	RecurrenceEnd     *time.Time
}

// SkippedOccurrence дата серии, для которой экземпляр не создан, с причиной
type SkippedOccurrence struct {
	Date   string
	Reason string
}

// Response созданное бронирование и результат разворачивания серии
// Серия создается в режиме partial success: занятые и нерабочие даты
// пропускаются и перечисляются в Skipped
type Response struct {
	Booking   *domain.Booking
	Instances []*domain.Booking
	Skipped   []SkippedOccurrence
}
