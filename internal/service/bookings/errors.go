package bookings

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input parameters")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrAccessDenied        = errors.New("access denied")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrReasonRequired      = errors.New("cancellation reason is required")
	ErrCancellationCutoff  = errors.New("cancellation cutoff has passed")
	ErrBookingNotFinished  = errors.New("booking has not finished yet")
	ErrBookingNotStarted   = errors.New("booking has not started yet")
	ErrInternal            = errors.New("internal error")
)
