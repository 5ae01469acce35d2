package get_available_slots

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input parameters")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrFacilityNotFound = errors.New("facility not found")
	ErrInternal         = errors.New("internal error")
)
