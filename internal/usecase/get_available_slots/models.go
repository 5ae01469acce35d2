package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
)

// MaxRangeDays ограничение длины запрашиваемого периода
const MaxRangeDays = 31

// Request параметры запроса свободных слотов
// Granularity позволяет переопределить шаг сетки из правил (опционально)
type Request struct {
	UserID      int64
	FacilityID  int64
	StartDate   time.Time
	EndDate     time.Time
	Granularity *int
}

// Response расписание доступности по дням запрошенного периода
type Response struct {
	FacilityID int64
	Days       []domain.DayAvailability
}
