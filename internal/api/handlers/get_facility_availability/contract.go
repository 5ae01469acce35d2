package get_facility_availability

import (
	"context"

	usecase "github.com/m04kA/SMC-FacilityBookingService/internal/usecase/get_available_slots"
)

// UseCase контракт сценария построения расписания слотов
type UseCase interface {
	Execute(ctx context.Context, req *usecase.Request) (*usecase.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
