package update_booking

import (
	"fmt"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
)

func (r *Request) validate() error {
	if r.UserID <= 0 {
		return fmt.Errorf("%w: user_id must be positive", ErrInvalidInput)
	}
	if r.BookingID <= 0 {
		return fmt.Errorf("%w: booking_id must be positive", ErrInvalidInput)
	}
	if !r.hasChanges() {
		return fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	if r.StartTime != nil {
		if err := r.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: start_time: %v", ErrInvalidTimeRange, err)
		}
	}
	if r.EndTime != nil {
		if err := r.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: end_time: %v", ErrInvalidTimeRange, err)
		}
	}
	if r.Date != nil && r.Date.IsZero() {
		return fmt.Errorf("%w: date must not be zero", ErrInvalidInput)
	}

	if r.Participants != nil && *r.Participants < domain.MinParticipants {
		return fmt.Errorf("%w: participants must be at least %d", ErrInvalidInput, domain.MinParticipants)
	}
	if r.Notes != nil && len(*r.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}
