package update_booking

import (
	"time"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/types"
)

// Request параметры изменения бронирования
// Все поля кроме идентификаторов опциональны, nil означает "не менять"
type Request struct {
	UserID    int64
	BookingID int64

	Date      *time.Time
	StartTime *types.TimeString
	EndTime   *types.TimeString

	Participants *int
	Notes        *string
}

// Response обновленное бронирование
type Response struct {
	Booking *domain.Booking
}

func (r *Request) hasTimeChange() bool {
	return r.Date != nil || r.StartTime != nil || r.EndTime != nil
}

func (r *Request) hasChanges() bool {
	return r.hasTimeChange() || r.Participants != nil || r.Notes != nil
}
