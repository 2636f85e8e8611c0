package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentAt(t *testing.T) {
	b := &Booking{AppointmentDate: "2026-03-10", AppointmentTime: "1:00 PM"}

	at, err := b.AppointmentAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC), at)
}

func TestIsCompleted(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		date      string
		slot      string
		status    BookingStatus
		completed bool
	}{
		{"past confirmed", "2026-03-09", "9:00 AM", BookingStatusConfirmed, true},
		{"past rescheduled", "2026-03-09", "9:00 AM", BookingStatusRescheduled, true},
		{"future confirmed", "2026-03-11", "9:00 AM", BookingStatusConfirmed, false},
		{"same morning", "2026-03-10", "9:00 AM", BookingStatusConfirmed, true},
		{"same afternoon", "2026-03-10", "1:00 PM", BookingStatusConfirmed, false},
		{"past cancelled", "2026-03-09", "9:00 AM", BookingStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{AppointmentDate: tt.date, AppointmentTime: tt.slot, Status: tt.status}
			assert.Equal(t, tt.completed, b.IsCompleted(now))
		})
	}
}

func TestIsValidSlot(t *testing.T) {
	for _, label := range SlotLabels {
		assert.True(t, IsValidSlot(label), label)
	}

	assert.False(t, IsValidSlot("2:00 PM"))
	assert.False(t, IsValidSlot("9:00 am"))
	assert.False(t, IsValidSlot(""))
}
