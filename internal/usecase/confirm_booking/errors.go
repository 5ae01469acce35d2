package confirm_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
)

var (
	ErrInvalidInput      = errors.New("invalid input parameters")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrAccessDenied      = errors.New("access denied")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrSlotConflict      = errors.New("time slot conflicts with existing booking")
	ErrInternal          = errors.New("internal error")
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
