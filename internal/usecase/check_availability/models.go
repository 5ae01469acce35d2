package check_availability

import (
	"time"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/types"
)

// Request параметры проверки доступности интервала
// ExcludeBookingID позволяет исключить бронирование из поиска конфликтов,
// используется при переносе существующей брони
type Request struct {
	UserID           int64
	FacilityID       int64
	Date             time.Time
	StartTime        types.TimeString
	EndTime          types.TimeString
	ExcludeBookingID *int64
}

// Response результат проверки доступности
// IsValid истинен только при пустом списке конфликтов
type Response struct {
	IsValid   bool
	Conflicts []domain.Conflict
	Warnings  []string
}
