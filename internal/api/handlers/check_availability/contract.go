package check_availability

import (
	"context"

	usecase "github.com/m04kA/SMC-FacilityBookingService/internal/usecase/check_availability"
)

// UseCase контракт сценария проверки доступности
type UseCase interface {
	Execute(ctx context.Context, req *usecase.Request) (*usecase.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
