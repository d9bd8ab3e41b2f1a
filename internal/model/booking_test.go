package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	terminals := []BookingStatus{StatusCompleted, StatusCancelled, StatusExpired, StatusRejected}

	for _, to := range terminals {
		assert.True(t, CanTransition(StatusBooked, to), "booked -> %s must be legal", to)
	}

	// Terminal states have no outgoing edges at all.
	all := append([]BookingStatus{StatusBooked}, terminals...)
	for _, from := range terminals {
		for _, to := range all {
			assert.False(t, CanTransition(from, to), "%s -> %s must be rejected", from, to)
		}
	}

	// Self-transition is not legal either.
	assert.False(t, CanTransition(StatusBooked, StatusBooked))
}

func TestTerminal(t *testing.T) {
	assert.False(t, StatusBooked.Terminal())
	for _, s := range []BookingStatus{StatusCompleted, StatusCancelled, StatusExpired, StatusRejected} {
		assert.True(t, s.Terminal(), "%s is terminal", s)
	}
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"booked", "completed", "cancelled", "expired", "rejected"} {
		s, ok := ParseStatus(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, BookingStatus(raw), s)
	}
	for _, raw := range []string{"", "BOOKED", "done", "pending", "cancel"} {
		_, ok := ParseStatus(raw)
		assert.False(t, ok, raw)
	}
}

func TestStaffTargets(t *testing.T) {
	assert.True(t, StaffTargets[StatusCompleted])
	assert.True(t, StaffTargets[StatusRejected])
	assert.True(t, StaffTargets[StatusExpired])
	assert.False(t, StaffTargets[StatusCancelled], "cancellation is customer-only")
	assert.False(t, StaffTargets[StatusBooked])
}
