package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/internal/integrations/facilityservice"
)

// BookingRepository доступ к хранилищу бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCustomerID(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByFacilityWithFilter(ctx context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, updatedBy int64) error
	Cancel(ctx context.Context, id int64, reason string, cancelledBy int64, paymentStatus domain.PaymentStatus) error
	Delete(ctx context.Context, id int64) error
}

// RulesRepository доступ к правилам бронирования
type RulesRepository interface {
	GetWithHierarchy(ctx context.Context, facilityID int64) (*domain.BookingRules, error)
}

// FacilityClient клиент каталога объектов
type FacilityClient interface {
	GetFacility(ctx context.Context, facilityID int64) (*facilityservice.Facility, error)
}

// BusinessMetrics счетчики бизнес-событий, может быть nil при выключенных метриках
type BusinessMetrics interface {
	IncBookingCancelled(by string)
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
