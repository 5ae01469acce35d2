package get_facility_rules

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-FacilityBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-FacilityBookingService/internal/service/rules"
	"github.com/m04kA/SMC-FacilityBookingService/internal/service/rules/models"
)

const msgInvalidFacilityID = "некорректный идентификатор объекта"

// RulesService контракт сервиса правил
type RulesService interface {
	GetEffective(ctx context.Context, facilityID int64) (*models.EffectiveRules, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Error(format string, v ...interface{})
}

// Response действующие правила и их источник
type Response struct {
	Rules handlers.RulesView `json:"rules"`
	Scope string             `json:"scope"`
}

// Handler GET /api/v1/facilities/{facility_id}/rules
type Handler struct {
	service RulesService
	logger  Logger
}

func New(service RulesService, logger Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		handlers.RespondUnauthorized(w, "пользователь не аутентифицирован")
		return
	}

	facilityID, err := strconv.ParseInt(mux.Vars(r)["facility_id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}

	effective, err := h.service.GetEffective(r.Context(), facilityID)
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("get_facility_rules handler: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Response{
		Rules: handlers.NewRulesView(effective.Rules),
		Scope: string(effective.Scope),
	})
}
