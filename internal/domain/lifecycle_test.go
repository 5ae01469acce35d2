package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{name: "pending to confirmed", from: StatusPending, to: StatusConfirmed, want: true},
		{name: "pending to cancelled", from: StatusPending, to: StatusCancelled, want: true},
		{name: "pending to completed", from: StatusPending, to: StatusCompleted, want: false},
		{name: "pending to no_show", from: StatusPending, to: StatusNoShow, want: false},
		{name: "confirmed to completed", from: StatusConfirmed, to: StatusCompleted, want: true},
		{name: "confirmed to cancelled", from: StatusConfirmed, to: StatusCancelled, want: true},
		{name: "confirmed to no_show", from: StatusConfirmed, to: StatusNoShow, want: true},
		{name: "confirmed to pending", from: StatusConfirmed, to: StatusPending, want: false},
		{name: "completed is terminal", from: StatusCompleted, to: StatusCancelled, want: false},
		{name: "cancelled is terminal", from: StatusCancelled, to: StatusPending, want: false},
		{name: "cancelled cannot be confirmed", from: StatusCancelled, to: StatusConfirmed, want: false},
		{name: "no_show is terminal", from: StatusNoShow, to: StatusConfirmed, want: false},
		{name: "unknown status", from: BookingStatus("draft"), to: StatusConfirmed, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestAllowedTransitions(t *testing.T) {
	assert.ElementsMatch(t, []BookingStatus{StatusConfirmed, StatusCancelled}, AllowedTransitions(StatusPending))
	assert.ElementsMatch(t, []BookingStatus{StatusCompleted, StatusCancelled, StatusNoShow}, AllowedTransitions(StatusConfirmed))
	assert.Empty(t, AllowedTransitions(StatusCompleted))
	assert.Empty(t, AllowedTransitions(StatusCancelled))
	assert.Empty(t, AllowedTransitions(StatusNoShow))
}

func TestTransitionSources(t *testing.T) {
	assert.ElementsMatch(t, []BookingStatus{StatusPending}, TransitionSources(StatusConfirmed))
	assert.ElementsMatch(t, []BookingStatus{StatusPending, StatusConfirmed}, TransitionSources(StatusCancelled))
	assert.ElementsMatch(t, []BookingStatus{StatusConfirmed}, TransitionSources(StatusCompleted))
	assert.ElementsMatch(t, []BookingStatus{StatusConfirmed}, TransitionSources(StatusNoShow))
	assert.Empty(t, TransitionSources(StatusPending))
}

func TestIsValidStatus(t *testing.T) {
	for _, status := range ValidStatuses {
		assert.True(t, IsValidStatus(string(status)))
	}
	assert.False(t, IsValidStatus("draft"))
	assert.False(t, IsValidStatus(""))
}
