package domain

import (
	"math"
	"time"

	"github.com/m04kA/SMC-FacilityBookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// PaymentStatus represents the payment status of a booking
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentPartial  PaymentStatus = "partial"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// Booking represents a facility reservation in the system
type Booking struct {
	ID              int64
	FacilityID      int64
	CustomerID      int64
	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int // Производное поле: EndTime - StartTime
	Participants    int
	Status          BookingStatus
	PaymentStatus   PaymentStatus

	// Цена фиксируется из каталога объектов на момент создания
	PricePerHour float64
	TotalAmount  float64 // Производное поле: PricePerHour * DurationMinutes / 60

	// Повторяющиеся бронирования
	IsRecurring       bool
	RecurrencePattern *RecurrencePattern
	RecurrenceEnd     *time.Time
	ParentBookingID   *int64 // Связь сгенерированного экземпляра с исходным бронированием

	// Denormalized data for history
	CustomerName *string
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time
	CancelledBy        *int64

	CreatedBy int64
	UpdatedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still blocks its time range
// Отмененные бронирования слот не занимают
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsTerminal returns true if the booking is in a terminal state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled || b.Status == StatusNoShow
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeUpdated returns true if the booking times/participants can be changed
func (b *Booking) CanBeUpdated() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeDeleted returns true if the booking may be physically removed
// Удаление - операция очистки данных, отличная от отмены (отмена сохраняет историю)
func (b *Booking) CanBeDeleted() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// Recalculate пересчитывает производные поля из StartTime/EndTime/PricePerHour
// Вызывается при создании и при любом изменении времени или цены -
// эти поля никогда не принимаются из пользовательского ввода
func (b *Booking) Recalculate() error {
	duration, err := b.StartTime.MinutesUntil(b.EndTime)
	if err != nil {
		return err
	}

	b.DurationMinutes = duration
	b.TotalAmount = math.Round(b.PricePerHour*float64(duration)/60*100) / 100
	return nil
}

// StartDateTime возвращает момент начала бронирования
func (b *Booking) StartDateTime() (time.Time, error) {
	return b.atMinutes(b.StartTime)
}

// EndDateTime возвращает момент окончания бронирования
func (b *Booking) EndDateTime() (time.Time, error) {
	return b.atMinutes(b.EndTime)
}

func (b *Booking) atMinutes(ts types.TimeString) (time.Time, error) {
	minutes, err := ts.Minutes()
	if err != nil {
		return time.Time{}, err
	}

	day := time.Date(b.BookingDate.Year(), b.BookingDate.Month(), b.BookingDate.Day(), 0, 0, 0, 0, b.BookingDate.Location())
	return day.Add(time.Duration(minutes) * time.Minute), nil
}

// OverlapsRange проверяет пересечение бронирования с интервалом [start, end)
// Полуоткрытые интервалы: соприкасающиеся границы пересечением не считаются
func (b *Booking) OverlapsRange(start, end types.TimeString) bool {
	return b.StartTime.IsBefore(end) && b.EndTime.IsAfter(start)
}

// FacilityBookingsFilter фильтр для получения бронирований объекта
type FacilityBookingsFilter struct {
	FacilityID      int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально, если nil - без ограничения)
	EndDate         *time.Time     // Конец периода (опционально, если nil - без ограничения)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные бронирования
}
