package check_availability

import "fmt"

func (r *Request) validate() error {
	if r.UserID <= 0 {
		return fmt.Errorf("%w: user_id must be positive", ErrInvalidInput)
	}
	if r.FacilityID <= 0 {
		return fmt.Errorf("%w: facility_id must be positive", ErrInvalidInput)
	}
	if r.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if r.ExcludeBookingID != nil && *r.ExcludeBookingID <= 0 {
		return fmt.Errorf("%w: exclude_booking_id must be positive", ErrInvalidInput)
	}
	if err := r.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start_time: %v", ErrInvalidTimeRange, err)
	}
	if err := r.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: end_time: %v", ErrInvalidTimeRange, err)
	}
	// Интервалы через полночь не поддерживаются, конец строго позже начала
	if !r.StartTime.IsBefore(r.EndTime) {
		return fmt.Errorf("%w: start_time must be before end_time", ErrInvalidTimeRange)
	}
	return nil
}
