package check_availability

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input parameters")
	ErrInvalidTimeRange  = errors.New("invalid time range")
	ErrFacilityNotFound  = errors.New("facility not found")
	ErrFacilityNotActive = errors.New("facility is not active")
	ErrInternal          = errors.New("internal error")
)
