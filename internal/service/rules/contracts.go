package rules

import (
	"context"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/internal/integrations/facilityservice"
)

// RulesRepository доступ к правилам бронирования
type RulesRepository interface {
	GetByFacility(ctx context.Context, facilityID int64) (*domain.BookingRules, error)
	GetGlobal(ctx context.Context) (*domain.BookingRules, error)
	Upsert(ctx context.Context, rules *domain.BookingRules) (*domain.BookingRules, error)
	Delete(ctx context.Context, facilityID int64) error
}

// FacilityClient клиент каталога объектов
type FacilityClient interface {
	GetFacility(ctx context.Context, facilityID int64) (*facilityservice.Facility, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
