package domain

// Default booking rule values
const (
	DefaultSlotGranularityMinutes  = 30
	DefaultMinNoticeMinutes        = 60 // 1 hour
	DefaultMaxAdvanceDays          = 0  // 0 = unlimited
	DefaultMinDurationMinutes      = 30
	DefaultMaxDurationMinutes      = 240 // 4 hours
	DefaultMaxBookingsPerDay       = 0   // 0 = unlimited
	DefaultMaxBookingsPerWeek      = 0   // 0 = unlimited
	DefaultCancellationCutoffHours = 0   // 0 = no cutoff
)

// Business validation constants
const (
	MinSlotGranularityMinutes = 5
	MaxSlotGranularityMinutes = 480 // 8 hours
	MinAdvanceDays            = 0
	MaxAdvanceDays            = 365 // 1 year
	MinNoticeMinutesBound     = 0
	MaxNoticeMinutesBound     = 10080 // 1 week
	MinParticipants           = 1

	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500

	// Предохранитель при разворачивании повторяющихся бронирований
	MaxRecurrenceInstances = 366
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не занимающих слот
// Используется для фильтрации при поиске конфликтов и подсчете доступных слотов
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}

// ActiveStatuses список статусов, занимающих слот
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusNoShow,
}

// ValidStatuses все допустимые статусы бронирования
var ValidStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// ValidPaymentStatuses все допустимые статусы оплаты
var ValidPaymentStatuses = []PaymentStatus{
	PaymentPending,
	PaymentPaid,
	PaymentPartial,
	PaymentRefunded,
	PaymentFailed,
}
