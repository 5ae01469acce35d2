package models

import (
	"time"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
)

// CancelRequest параметры отмены бронирования
type CancelRequest struct {
	UserID    int64
	BookingID int64
	Reason    string
}

// UserBookingsQuery параметры выборки бронирований пользователя
type UserBookingsQuery struct {
	UserID       int64 // Инициатор запроса
	TargetUserID int64 // Чьи бронирования запрашиваются
	Status       *domain.BookingStatus
}

// FacilityBookingsQuery параметры выборки бронирований объекта
type FacilityBookingsQuery struct {
	UserID     int64 // Инициатор запроса, должен быть менеджером объекта
	FacilityID int64
	StartDate  *time.Time
	EndDate    *time.Time
	Status     *domain.BookingStatus

	// Менеджеры видят отмененные бронирования в истории
	IncludeInactive bool
}
