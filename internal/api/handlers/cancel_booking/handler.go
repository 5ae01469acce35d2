package cancel_booking

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-FacilityBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-FacilityBookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "некорректный идентификатор бронирования"
	msgInvalidBody      = "некорректное тело запроса"
	msgReasonRequired   = "причина отмены обязательна"
	msgBookingNotFound  = "бронирование не найдено"
	msgAccessDenied     = "нет доступа к бронированию"
)

// BookingsService контракт сервиса бронирований
type BookingsService interface {
	Cancel(ctx context.Context, req models.CancelRequest) (*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Error(format string, v ...interface{})
}

// Request тело запроса на отмену
type Request struct {
	Reason string `json:"reason"`
}

// Handler POST /api/v1/bookings/{booking_id}/cancel
type Handler struct {
	service BookingsService
	logger  Logger
}

func New(service BookingsService, logger Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "пользователь не аутентифицирован")
		return
	}

	bookingID, err := strconv.ParseInt(mux.Vars(r)["booking_id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req Request
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	booking, err := h.service.Cancel(r.Context(), models.CancelRequest{
		UserID:    userID,
		BookingID: bookingID,
		Reason:    req.Reason,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.NewBookingView(booking))
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bookings.ErrReasonRequired):
		handlers.RespondBadRequest(w, msgReasonRequired)
	case errors.Is(err, bookings.ErrInvalidInput):
		handlers.RespondBadRequest(w, err.Error())
	case errors.Is(err, bookings.ErrBookingNotFound):
		handlers.RespondNotFound(w, msgBookingNotFound)
	case errors.Is(err, bookings.ErrAccessDenied):
		handlers.RespondForbidden(w, msgAccessDenied)
	case errors.Is(err, bookings.ErrInvalidTransition):
		handlers.RespondConflictMessage(w, err.Error())
	case errors.Is(err, bookings.ErrCancellationCutoff):
		handlers.RespondUnprocessableEntity(w, err.Error())
	default:
		h.logger.Error("cancel_booking handler: %v", err)
		handlers.RespondInternalError(w)
	}
}
