package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
)

func (r *Request) validate() error {
	if r.UserID <= 0 {
		return fmt.Errorf("%w: user_id must be positive", ErrInvalidInput)
	}
	if r.CustomerID != nil && *r.CustomerID <= 0 {
		return fmt.Errorf("%w: customer_id must be positive", ErrInvalidInput)
	}
	if r.FacilityID <= 0 {
		return fmt.Errorf("%w: facility_id must be positive", ErrInvalidInput)
	}
	if r.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := r.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start_time: %v", ErrInvalidTimeRange, err)
	}
	if err := r.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: end_time: %v", ErrInvalidTimeRange, err)
	}
	// Интервалы через полночь не поддерживаются
	if !r.StartTime.IsBefore(r.EndTime) {
		return fmt.Errorf("%w: start_time must be before end_time", ErrInvalidTimeRange)
	}

	if r.Participants < domain.MinParticipants {
		return fmt.Errorf("%w: participants must be at least %d", ErrInvalidInput, domain.MinParticipants)
	}
	if r.Notes != nil && len(*r.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return r.validateRecurrence()
}

func (r *Request) validateRecurrence() error {
	if !r.IsRecurring {
		if r.RecurrencePattern != nil || r.RecurrenceEnd != nil {
			return fmt.Errorf("%w: recurrence fields require is_recurring", ErrInvalidRecurrence)
		}
		return nil
	}

	if r.RecurrencePattern == nil {
		return fmt.Errorf("%w: recurrence_pattern is required", ErrInvalidRecurrence)
	}
	if !r.RecurrencePattern.IsValid() {
		return fmt.Errorf("%w: unknown pattern %q", ErrInvalidRecurrence, *r.RecurrencePattern)
	}
	if r.RecurrenceEnd == nil {
		return fmt.Errorf("%w: recurrence_end is required", ErrInvalidRecurrence)
	}
	if r.RecurrenceEnd.Before(r.Date) {
		return fmt.Errorf("%w: recurrence_end before booking date", ErrInvalidRecurrence)
	}
	return nil
}
