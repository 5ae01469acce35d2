package update_booking

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-FacilityBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	usecase "github.com/m04kA/SMC-FacilityBookingService/internal/usecase/update_booking"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/types"
)

const (
	msgInvalidBookingID = "некорректный идентификатор бронирования"
	msgInvalidBody      = "некорректное тело запроса"
	msgInvalidDate      = "некорректная дата, ожидается формат YYYY-MM-DD"
	msgBookingNotFound  = "бронирование не найдено"
	msgAccessDenied     = "нет доступа к бронированию"
	msgSlotConflict     = "выбранное время уже занято"
)

// UseCase контракт сценария изменения бронирования
type UseCase interface {
	Execute(ctx context.Context, req *usecase.Request) (*usecase.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Error(format string, v ...interface{})
}

// Request тело запроса на изменение бронирования
// Отсутствующие поля не меняются
type Request struct {
	Date         *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartTime    *string `json:"start_time,omitempty"` // HH:MM
	EndTime      *string `json:"end_time,omitempty"`   // HH:MM
	Participants *int    `json:"participants,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// ConflictResponse тело ответа 409 со списком конфликтов
type ConflictResponse struct {
	Message   string                  `json:"message"`
	Conflicts []handlers.ConflictView `json:"conflicts"`
}

// Handler PUT /api/v1/bookings/{booking_id}
type Handler struct {
	useCase UseCase
	logger  Logger
}

func New(useCase UseCase, logger Logger) *Handler {
	return &Handler{useCase: useCase, logger: logger}
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

	ucReq := &usecase.Request{
		UserID:       userID,
		BookingID:    bookingID,
		Participants: req.Participants,
		Notes:        req.Notes,
	}
	if req.Date != nil {
		date, err := time.Parse(domain.DateFormat, *req.Date)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		ucReq.Date = &date
	}
	if req.StartTime != nil {
		start := types.TimeString(*req.StartTime)
		ucReq.StartTime = &start
	}
	if req.EndTime != nil {
		end := types.TimeString(*req.EndTime)
		ucReq.EndTime = &end
	}

	resp, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.NewBookingView(resp.Booking))
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var conflictErr *usecase.SlotConflictError

	switch {
	case errors.As(err, &conflictErr):
		handlers.RespondConflict(w, ConflictResponse{
			Message:   msgSlotConflict,
			Conflicts: handlers.NewConflictViews(conflictErr.Conflicts),
		})
	case errors.Is(err, usecase.ErrInvalidInput), errors.Is(err, usecase.ErrInvalidTimeRange):
		handlers.RespondBadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrBookingNotFound):
		handlers.RespondNotFound(w, msgBookingNotFound)
	case errors.Is(err, usecase.ErrAccessDenied):
		handlers.RespondForbidden(w, msgAccessDenied)
	case errors.Is(err, usecase.ErrNotUpdatable):
		handlers.RespondConflictMessage(w, err.Error())
	case errors.Is(err, usecase.ErrFacilityClosed),
		errors.Is(err, usecase.ErrOutsideWorkingHours),
		errors.Is(err, usecase.ErrMinNoticeViolated),
		errors.Is(err, usecase.ErrDurationTooShort),
		errors.Is(err, usecase.ErrDurationTooLong),
		errors.Is(err, usecase.ErrTooManyParticipants):
		handlers.RespondUnprocessableEntity(w, err.Error())
	default:
		h.logger.Error("update_booking handler: %v", err)
		handlers.RespondInternalError(w)
	}
}
