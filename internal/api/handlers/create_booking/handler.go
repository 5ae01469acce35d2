package create_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-FacilityBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	usecase "github.com/m04kA/SMC-FacilityBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/types"
)

const (
	msgInvalidBody      = "некорректное тело запроса"
	msgInvalidDate      = "некорректная дата, ожидается формат YYYY-MM-DD"
	msgFacilityNotFound = "объект не найден"
	msgSlotConflict     = "выбранное время уже занято"
)

// Handler POST /api/v1/bookings
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

	var req Request
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	ucReq, err := h.toUseCaseRequest(userID, &req)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		h.respondError(w, err)
		return
	}

	out := Response{
		Booking:   handlers.NewBookingView(resp.Booking),
		Instances: handlers.NewBookingViews(resp.Instances),
	}
	for _, skipped := range resp.Skipped {
		out.Skipped = append(out.Skipped, SkippedView(skipped))
	}

	handlers.RespondJSON(w, http.StatusCreated, out)
}

func (h *Handler) toUseCaseRequest(userID int64, req *Request) (*usecase.Request, error) {
	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return nil, err
	}

	ucReq := &usecase.Request{
		UserID:       userID,
		CustomerID:   req.CustomerID,
		FacilityID:   req.FacilityID,
		Date:         date,
		StartTime:    types.TimeString(req.StartTime),
		EndTime:      types.TimeString(req.EndTime),
		Participants: req.Participants,
		Notes:        req.Notes,
		IsRecurring:  req.IsRecurring,
	}

	if req.RecurrencePattern != nil {
		pattern := domain.RecurrencePattern(*req.RecurrencePattern)
		ucReq.RecurrencePattern = &pattern
	}
	if req.RecurrenceEnd != nil {
		end, err := time.Parse(domain.DateFormat, *req.RecurrenceEnd)
		if err != nil {
			return nil, err
		}
		ucReq.RecurrenceEnd = &end
	}
	return ucReq, nil
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var conflictErr *usecase.SlotConflictError

	switch {
	case errors.As(err, &conflictErr):
		handlers.RespondConflict(w, ConflictResponse{
			Message:   msgSlotConflict,
			Conflicts: handlers.NewConflictViews(conflictErr.Conflicts),
		})
	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, usecase.ErrInvalidTimeRange),
		errors.Is(err, usecase.ErrInvalidDate),
		errors.Is(err, usecase.ErrInvalidRecurrence):
		handlers.RespondBadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrFacilityNotFound):
		handlers.RespondNotFound(w, msgFacilityNotFound)
	case errors.Is(err, usecase.ErrFacilityNotActive),
		errors.Is(err, usecase.ErrFacilityClosed),
		errors.Is(err, usecase.ErrOutsideWorkingHours),
		errors.Is(err, usecase.ErrMinNoticeViolated),
		errors.Is(err, usecase.ErrMaxAdvanceViolated),
		errors.Is(err, usecase.ErrDurationTooShort),
		errors.Is(err, usecase.ErrDurationTooLong),
		errors.Is(err, usecase.ErrTooManyParticipants),
		errors.Is(err, usecase.ErrQuotaExceeded):
		handlers.RespondUnprocessableEntity(w, err.Error())
	default:
		h.logger.Error("create_booking handler: %v", err)
		handlers.RespondInternalError(w)
	}
}
