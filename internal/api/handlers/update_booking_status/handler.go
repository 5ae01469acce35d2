package update_booking_status

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
	usecase "github.com/m04kA/SMC-FacilityBookingService/internal/usecase/confirm_booking"
)

const (
	msgInvalidBookingID  = "некорректный идентификатор бронирования"
	msgInvalidBody       = "некорректное тело запроса"
	msgUnknownStatus     = "неизвестный целевой статус"
	msgUseCancelEndpoint = "для отмены используйте POST /bookings/{id}/cancel с причиной"
	msgBookingNotFound   = "бронирование не найдено"
	msgAccessDenied      = "операция доступна только менеджеру объекта"
	msgSlotConflict      = "слот занят другим бронированием, подтверждение невозможно"
)

// ConfirmUseCase контракт сценария подтверждения
type ConfirmUseCase interface {
	Execute(ctx context.Context, req *usecase.Request) (*usecase.Response, error)
}

// BookingsService контракт менеджерских переходов статуса
type BookingsService interface {
	Complete(ctx context.Context, userID, bookingID int64) (*domain.Booking, error)
	MarkNoShow(ctx context.Context, userID, bookingID int64) (*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Error(format string, v ...interface{})
}

// Request тело запроса на смену статуса
type Request struct {
	Status string `json:"status"`
}

// ConflictResponse тело ответа 409 со списком конфликтов
type ConflictResponse struct {
	Message   string                  `json:"message"`
	Conflicts []handlers.ConflictView `json:"conflicts"`
}

// Handler PATCH /api/v1/bookings/{booking_id}/status
//
// Подтверждение идет через отдельный сценарий с повторной проверкой
// доступности, остальные переходы выполняет сервис жизненного цикла.
// Отмена сюда не входит: ей нужна причина и свой маршрут
type Handler struct {
	confirm ConfirmUseCase
	service BookingsService
	logger  Logger
}

func New(confirm ConfirmUseCase, service BookingsService, logger Logger) *Handler {
	return &Handler{confirm: confirm, service: service, logger: logger}
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

	var booking *domain.Booking

	switch domain.BookingStatus(req.Status) {
	case domain.StatusConfirmed:
		resp, err := h.confirm.Execute(r.Context(), &usecase.Request{UserID: userID, BookingID: bookingID})
		if err != nil {
			h.respondConfirmError(w, err)
			return
		}
		booking = resp.Booking
	case domain.StatusCompleted:
		booking, err = h.service.Complete(r.Context(), userID, bookingID)
	case domain.StatusNoShow:
		booking, err = h.service.MarkNoShow(r.Context(), userID, bookingID)
	case domain.StatusCancelled:
		handlers.RespondBadRequest(w, msgUseCancelEndpoint)
		return
	default:
		handlers.RespondBadRequest(w, msgUnknownStatus)
		return
	}

	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.NewBookingView(booking))
}

func (h *Handler) respondConfirmError(w http.ResponseWriter, err error) {
	var conflictErr *usecase.SlotConflictError

	switch {
	case errors.As(err, &conflictErr):
		handlers.RespondConflict(w, ConflictResponse{
			Message:   msgSlotConflict,
			Conflicts: handlers.NewConflictViews(conflictErr.Conflicts),
		})
	case errors.Is(err, usecase.ErrInvalidInput):
		handlers.RespondBadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrBookingNotFound):
		handlers.RespondNotFound(w, msgBookingNotFound)
	case errors.Is(err, usecase.ErrAccessDenied):
		handlers.RespondForbidden(w, msgAccessDenied)
	case errors.Is(err, usecase.ErrInvalidTransition):
		handlers.RespondConflictMessage(w, err.Error())
	default:
		h.logger.Error("update_booking_status handler: confirm: %v", err)
		handlers.RespondInternalError(w)
	}
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bookings.ErrInvalidInput):
		handlers.RespondBadRequest(w, err.Error())
	case errors.Is(err, bookings.ErrBookingNotFound):
		handlers.RespondNotFound(w, msgBookingNotFound)
	case errors.Is(err, bookings.ErrAccessDenied):
		handlers.RespondForbidden(w, msgAccessDenied)
	case errors.Is(err, bookings.ErrInvalidTransition):
		handlers.RespondConflictMessage(w, err.Error())
	case errors.Is(err, bookings.ErrBookingNotFinished),
		errors.Is(err, bookings.ErrBookingNotStarted):
		handlers.RespondUnprocessableEntity(w, err.Error())
	default:
		h.logger.Error("update_booking_status handler: %v", err)
		handlers.RespondInternalError(w)
	}
}
