package rules

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input parameters")
	ErrFacilityNotFound = errors.New("facility not found")
	ErrRulesNotFound    = errors.New("booking rules not found")
	ErrAccessDenied     = errors.New("access denied")
	ErrInternal         = errors.New("internal error")
)
