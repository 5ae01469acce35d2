package create_booking

import (
	"context"

	usecase "github.com/m04kA/SMC-FacilityBookingService/internal/usecase/create_booking"
)

// UseCase контракт сценария создания бронирования
type UseCase interface {
	Execute(ctx context.Context, req *usecase.Request) (*usecase.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
