package check_availability

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-FacilityBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	usecase "github.com/m04kA/SMC-FacilityBookingService/internal/usecase/check_availability"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/types"
)

const (
	msgInvalidBody      = "некорректное тело запроса"
	msgInvalidDate      = "некорректная дата, ожидается формат YYYY-MM-DD"
	msgFacilityNotFound = "объект не найден"
)

// Request тело запроса на проверку доступности
type Request struct {
	FacilityID       int64  `json:"facility_id"`
	Date             string `json:"date"`       // YYYY-MM-DD
	StartTime        string `json:"start_time"` // HH:MM
	EndTime          string `json:"end_time"`   // HH:MM
	ExcludeBookingID *int64 `json:"exclude_booking_id,omitempty"`
}

// Response результат проверки доступности
type Response struct {
	IsValid   bool                    `json:"is_valid"`
	Conflicts []handlers.ConflictView `json:"conflicts"`
	Warnings  []string                `json:"warnings"`
}

// Handler POST /api/v1/bookings/check-availability
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

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), &usecase.Request{
		UserID:           userID,
		FacilityID:       req.FacilityID,
		Date:             date,
		StartTime:        types.TimeString(req.StartTime),
		EndTime:          types.TimeString(req.EndTime),
		ExcludeBookingID: req.ExcludeBookingID,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Response{
		IsValid:   resp.IsValid,
		Conflicts: handlers.NewConflictViews(resp.Conflicts),
		Warnings:  resp.Warnings,
	})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput), errors.Is(err, usecase.ErrInvalidTimeRange):
		handlers.RespondBadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrFacilityNotFound):
		handlers.RespondNotFound(w, msgFacilityNotFound)
	case errors.Is(err, usecase.ErrFacilityNotActive):
		handlers.RespondUnprocessableEntity(w, err.Error())
	default:
		h.logger.Error("check_availability handler: %v", err)
		handlers.RespondInternalError(w)
	}
}
