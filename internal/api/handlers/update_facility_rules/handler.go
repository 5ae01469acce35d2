package update_facility_rules

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-FacilityBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/internal/service/rules"
	"github.com/m04kA/SMC-FacilityBookingService/internal/service/rules/models"
)

const (
	msgInvalidFacilityID = "некорректный идентификатор объекта"
	msgInvalidBody       = "некорректное тело запроса"
	msgFacilityNotFound  = "объект не найден"
	msgRulesNotFound     = "правила объекта не заданы"
	msgAccessDenied      = "управление правилами доступно только менеджеру объекта"
)

// RulesService контракт сервиса правил
type RulesService interface {
	Upsert(ctx context.Context, req models.UpdateRequest) (*domain.BookingRules, error)
	Delete(ctx context.Context, userID, facilityID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Error(format string, v ...interface{})
}

// Request тело запроса на обновление правил объекта
type Request struct {
	SlotGranularityMinutes  int `json:"slot_granularity_minutes"`
	MinNoticeMinutes        int `json:"min_notice_minutes"`
	MaxAdvanceDays          int `json:"max_advance_days"`
	MinDurationMinutes      int `json:"min_duration_minutes"`
	MaxDurationMinutes      int `json:"max_duration_minutes"`
	MaxBookingsPerDay       int `json:"max_bookings_per_day"`
	MaxBookingsPerWeek      int `json:"max_bookings_per_week"`
	CancellationCutoffHours int `json:"cancellation_cutoff_hours"`
}

// Handler PUT и DELETE /api/v1/facilities/{facility_id}/rules
type Handler struct {
	service RulesService
	logger  Logger
}

func New(service RulesService, logger Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Handle обновляет правила объекта
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

	var req Request
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	saved, err := h.service.Upsert(r.Context(), models.UpdateRequest{
		UserID:                  userID,
		FacilityID:              facilityID,
		SlotGranularityMinutes:  req.SlotGranularityMinutes,
		MinNoticeMinutes:        req.MinNoticeMinutes,
		MaxAdvanceDays:          req.MaxAdvanceDays,
		MinDurationMinutes:      req.MinDurationMinutes,
		MaxDurationMinutes:      req.MaxDurationMinutes,
		MaxBookingsPerDay:       req.MaxBookingsPerDay,
		MaxBookingsPerWeek:      req.MaxBookingsPerWeek,
		CancellationCutoffHours: req.CancellationCutoffHours,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.NewRulesView(saved))
}

// HandleDelete удаляет правила объекта, возвращая его на глобальные значения
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.Delete(r.Context(), userID, facilityID); err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rules.ErrInvalidInput):
		handlers.RespondBadRequest(w, err.Error())
	case errors.Is(err, rules.ErrFacilityNotFound):
		handlers.RespondNotFound(w, msgFacilityNotFound)
	case errors.Is(err, rules.ErrRulesNotFound):
		handlers.RespondNotFound(w, msgRulesNotFound)
	case errors.Is(err, rules.ErrAccessDenied):
		handlers.RespondForbidden(w, msgAccessDenied)
	default:
		h.logger.Error("update_facility_rules handler: %v", err)
		handlers.RespondInternalError(w)
	}
}
