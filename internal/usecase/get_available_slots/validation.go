package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
)

func (r *Request) validate() error {
	if r.UserID <= 0 {
		return fmt.Errorf("%w: user_id must be positive", ErrInvalidInput)
	}
	if r.FacilityID <= 0 {
		return fmt.Errorf("%w: facility_id must be positive", ErrInvalidInput)
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", ErrInvalidInput)
	}
	if r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("%w: end_date before start_date", ErrInvalidDateRange)
	}
	if r.EndDate.Sub(r.StartDate) > MaxRangeDays*24*time.Hour {
		return fmt.Errorf("%w: range exceeds %d days", ErrInvalidDateRange, MaxRangeDays)
	}
	if r.Granularity != nil &&
		(*r.Granularity < domain.MinSlotGranularityMinutes || *r.Granularity > domain.MaxSlotGranularityMinutes) {
		return fmt.Errorf("%w: granularity out of range [%d, %d]",
			ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}
	return nil
}
