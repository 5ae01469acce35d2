package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
)

var (
	ErrInvalidInput         = errors.New("invalid input parameters")
	ErrInvalidTimeRange     = errors.New("invalid time range")
	ErrInvalidDate          = errors.New("invalid booking date")
	ErrFacilityNotFound     = errors.New("facility not found")
	ErrFacilityNotActive    = errors.New("facility is not active")
	ErrFacilityClosed       = errors.New("facility is closed on requested date")
	ErrOutsideWorkingHours  = errors.New("booking time is outside working hours")
	ErrMinNoticeViolated    = errors.New("minimum notice period violated")
	ErrMaxAdvanceViolated   = errors.New("maximum advance period violated")
	ErrDurationTooShort     = errors.New("booking duration is too short")
	ErrDurationTooLong      = errors.New("booking duration is too long")
	ErrTooManyParticipants  = errors.New("participants exceed facility capacity")
	ErrQuotaExceeded        = errors.New("booking quota exceeded")
	ErrInvalidRecurrence    = errors.New("invalid recurrence parameters")
	ErrSlotConflict         = errors.New("time slot conflicts with existing booking")
	ErrInternal             = errors.New("internal error")
)

// SlotConflictError переносит список конфликтов до HTTP-слоя
// Совместим с errors.Is(err, ErrSlotConflict)
type SlotConflictError struct {
	Conflicts []domain.Conflict
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("%v: %d conflict(s)", ErrSlotConflict, len(e.Conflicts))
}

func (e *SlotConflictError) Is(target error) bool {
	return target == ErrSlotConflict
}
