package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{"pending_payment -> active", AppointmentPendingPayment, AppointmentActive, true},
		{"pending_payment -> cancelled", AppointmentPendingPayment, AppointmentCancelled, true},
		{"active -> cancelled", AppointmentActive, AppointmentCancelled, true},
		{"active -> pending_payment", AppointmentActive, AppointmentPendingPayment, false},
		{"cancelled -> active", AppointmentCancelled, AppointmentActive, false},
		{"cancelled -> pending_payment", AppointmentCancelled, AppointmentPendingPayment, false},
		{"unknown status", AppointmentStatus("weird"), AppointmentActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestAppointmentStatus_IsTerminal(t *testing.T) {
	assert.False(t, AppointmentPendingPayment.IsTerminal())
	assert.False(t, AppointmentActive.IsTerminal())
	assert.True(t, AppointmentCancelled.IsTerminal())
}

func TestAppointment_CanBeCancelled(t *testing.T) {
	assert.True(t, (&Appointment{Status: AppointmentPendingPayment}).CanBeCancelled())
	assert.True(t, (&Appointment{Status: AppointmentActive}).CanBeCancelled())
	assert.False(t, (&Appointment{Status: AppointmentCancelled}).CanBeCancelled())
}

func TestAppointment_IsBusy(t *testing.T) {
	assert.True(t, (&Appointment{Status: AppointmentActive}).IsBusy())
	assert.True(t, (&Appointment{Status: AppointmentPendingPayment}).IsBusy())
	assert.False(t, (&Appointment{Status: AppointmentCancelled}).IsBusy())
}

func TestReminderKind_Lead(t *testing.T) {
	assert.Equal(t, 24*time.Hour, Reminder24h.Lead())
	assert.Equal(t, time.Hour, Reminder1h.Lead())
	assert.Equal(t, time.Duration(0), ReminderKind("2h").Lead())
}
