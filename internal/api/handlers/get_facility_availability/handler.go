package get_facility_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-FacilityBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	usecase "github.com/m04kA/SMC-FacilityBookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidFacilityID = "некорректный идентификатор объекта"
	msgInvalidQuery      = "некорректные параметры запроса"
	msgFacilityNotFound  = "объект не найден"
)

// SlotView слот в ответе API
type SlotView struct {
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	AvailableSpots  int    `json:"available_spots"`
	TotalSpots      int    `json:"total_spots"`
	IsAvailable     bool   `json:"is_available"`
	BlockReason     string `json:"block_reason,omitempty"`
}

// DayView доступность одного дня
type DayView struct {
	Date      string     `json:"date"`
	IsHoliday bool       `json:"is_holiday"`
	IsOpen    bool       `json:"is_open"`
	OpenTime  *string    `json:"open_time,omitempty"`
	CloseTime *string    `json:"close_time,omitempty"`
	Slots     []SlotView `json:"slots"`
}

// Response расписание доступности объекта за период
type Response struct {
	FacilityID int64     `json:"facility_id"`
	Days       []DayView `json:"days"`
}

// Handler GET /api/v1/facilities/{facility_id}/availability
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

	facilityID, err := strconv.ParseInt(mux.Vars(r)["facility_id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}

	req, err := h.parseQuery(userID, facilityID, r)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, toResponse(resp))
}

// parseQuery читает период из query, по умолчанию один день - сегодня
func (h *Handler) parseQuery(userID, facilityID int64, r *http.Request) (*usecase.Request, error) {
	query := r.URL.Query()

	req := &usecase.Request{
		UserID:     userID,
		FacilityID: facilityID,
	}

	now := time.Now()
	req.StartDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	req.EndDate = req.StartDate

	if raw := query.Get("start_date"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.StartDate = date
		req.EndDate = date
	}
	if raw := query.Get("end_date"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.EndDate = date
	}
	if raw := query.Get("granularity"); raw != "" {
		granularity, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		req.Granularity = &granularity
	}
	return req, nil
}

func toResponse(resp *usecase.Response) Response {
	out := Response{FacilityID: resp.FacilityID, Days: make([]DayView, 0, len(resp.Days))}

	for _, day := range resp.Days {
		view := DayView{
			Date:      day.Date,
			IsHoliday: day.IsHoliday,
			IsOpen:    day.IsOpen,
			Slots:     make([]SlotView, 0, len(day.Slots)),
		}
		if day.OpenTime != nil {
			open := day.OpenTime.String()
			view.OpenTime = &open
		}
		if day.CloseTime != nil {
			close := day.CloseTime.String()
			view.CloseTime = &close
		}
		for _, slot := range day.Slots {
			view.Slots = append(view.Slots, SlotView{
				StartTime:       slot.StartTime.String(),
				DurationMinutes: slot.DurationMinutes,
				AvailableSpots:  slot.AvailableSpots,
				TotalSpots:      slot.TotalSpots,
				IsAvailable:     slot.IsAvailable(),
				BlockReason:     slot.BlockReason,
			})
		}
		out.Days = append(out.Days, view)
	}
	return out
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput), errors.Is(err, usecase.ErrInvalidDateRange):
		handlers.RespondBadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrFacilityNotFound):
		handlers.RespondNotFound(w, msgFacilityNotFound)
	default:
		h.logger.Error("get_facility_availability handler: %v", err)
		handlers.RespondInternalError(w)
	}
}
