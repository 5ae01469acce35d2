package get_facility_bookings

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
	"github.com/m04kA/SMC-FacilityBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-FacilityBookingService/internal/service/bookings/models"
)

const (
	msgInvalidFacilityID = "некорректный идентификатор объекта"
	msgInvalidQuery      = "некорректные параметры запроса"
	msgFacilityNotFound  = "объект не найден"
	msgAccessDenied      = "просмотр бронирований объекта доступен только менеджеру"
)

// BookingsService контракт сервиса бронирований
type BookingsService interface {
	GetFacilityBookings(ctx context.Context, query models.FacilityBookingsQuery) ([]*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Error(format string, v ...interface{})
}

// Response список бронирований объекта
type Response struct {
	Bookings []handlers.BookingView `json:"bookings"`
}

// Handler GET /api/v1/facilities/{facility_id}/bookings
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

	facilityID, err := strconv.ParseInt(mux.Vars(r)["facility_id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}

	query, err := h.parseQuery(userID, facilityID, r)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.service.GetFacilityBookings(r.Context(), *query)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgFacilityNotFound)
		case errors.Is(err, bookings.ErrAccessDenied):
			handlers.RespondForbidden(w, msgAccessDenied)
		default:
			h.logger.Error("get_facility_bookings handler: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Response{Bookings: handlers.NewBookingViews(result)})
}

func (h *Handler) parseQuery(userID, facilityID int64, r *http.Request) (*models.FacilityBookingsQuery, error) {
	values := r.URL.Query()

	query := &models.FacilityBookingsQuery{
		UserID:          userID,
		FacilityID:      facilityID,
		IncludeInactive: values.Get("include_cancelled") == "true",
	}

	if raw := values.Get("start_date"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		query.StartDate = &date
	}
	if raw := values.Get("end_date"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		query.EndDate = &date
	}
	if raw := values.Get("status"); raw != "" {
		status := domain.BookingStatus(raw)
		query.Status = &status
	}
	return query, nil
}
