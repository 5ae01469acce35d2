package domain

import "github.com/m04kA/SMC-FacilityBookingService/pkg/types"

// AvailableSlot represents a time slot available for booking
// Модель занятости бинарная: слот либо полностью свободен, либо полностью
// занят пересекающимся активным бронированием (частичное разделение
// вместимости между одновременными бронированиями не поддерживается)
type AvailableSlot struct {
	StartTime       types.TimeString
	DurationMinutes int
	AvailableSpots  int
	TotalSpots      int
	IsBlocked       bool
	BlockReason     string
}

// IsAvailable returns true if the slot can be booked
func (s *AvailableSlot) IsAvailable() bool {
	return !s.IsBlocked && s.AvailableSpots > 0
}

// DayAvailability represents the bookable slots of one facility day
type DayAvailability struct {
	FacilityID int64
	Date       string // YYYY-MM-DD
	IsHoliday  bool
	IsOpen     bool
	OpenTime   *types.TimeString
	CloseTime  *types.TimeString
	Slots      []AvailableSlot
}
