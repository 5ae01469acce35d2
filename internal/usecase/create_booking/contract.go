package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/internal/integrations/facilityservice"
	"github.com/m04kA/SMC-FacilityBookingService/internal/integrations/userservice"
)

// BookingRepository доступ к хранилищу бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
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

// UserClient клиент справочника пользователей
type UserClient interface {
	GetUserWithGracefulDegradation(ctx context.Context, userID int64) (*userservice.User, error)
}

// TxManager управление транзакциями
// Проверка конфликтов и вставка выполняются в одной serializable-транзакции
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// BusinessMetrics счетчики бизнес-событий, может быть nil при выключенных метриках
type BusinessMetrics interface {
	IncBookingCreated(status string)
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
