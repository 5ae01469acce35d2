package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/internal/integrations/facilityservice"
)

// BookingRepository доступ к хранилищу бронирований
type BookingRepository interface {
	GetByFacilityWithFilter(ctx context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error)
	CountActiveByCustomer(ctx context.Context, customerID, facilityID int64, from, to time.Time) (int, error)
}

// RulesRepository доступ к правилам бронирования
type RulesRepository interface {
	GetWithHierarchy(ctx context.Context, facilityID int64) (*domain.BookingRules, error)
}

// FacilityClient клиент каталога объектов
type FacilityClient interface {
	GetFacility(ctx context.Context, facilityID int64) (*facilityservice.Facility, error)
}

// TimeProvider источник текущего времени, выделен для тестируемости
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
