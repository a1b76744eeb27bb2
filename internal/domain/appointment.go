package domain

import "time"

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentPendingPayment AppointmentStatus = "pending_payment"
	AppointmentActive         AppointmentStatus = "active"
	AppointmentCancelled      AppointmentStatus = "cancelled"
)

// appointmentTransitions is the explicit transition table of the appointment
// state machine. An appointment starts in pending_payment (or directly in
// active when payment is skipped); cancelled is terminal.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentPendingPayment: {AppointmentActive, AppointmentCancelled},
	AppointmentActive:         {AppointmentCancelled},
	AppointmentCancelled:      {},
}

// CanTransitionTo reports whether the transition s -> next is legal
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s AppointmentStatus) IsTerminal() bool {
	return len(appointmentTransitions[s]) == 0
}

// IsValid reports whether s is a known status value
func (s AppointmentStatus) IsValid() bool {
	_, ok := appointmentTransitions[s]
	return ok
}

// BusyStatuses are the statuses that hold a master's time slot.
// The store-level exclusion constraint uses the same predicate: no two
// appointments in these statuses may overlap for one master.
var BusyStatuses = []AppointmentStatus{AppointmentActive, AppointmentPendingPayment}

// Appointment represents a client's reservation of a master's time slot
type Appointment struct {
	ID        int64
	UserID    int64
	MasterID  int64
	ServiceID int64

	// EndsAt is computed once at creation (StartsAt + service duration) and frozen
	StartsAt time.Time
	EndsAt   time.Time

	Status    AppointmentStatus
	PaymentID *int64

	Reminded24h bool
	Reminded1h  bool

	CreatedAt time.Time
}

// IsBusy returns true if the appointment holds its slot
func (a *Appointment) IsBusy() bool {
	return a.Status == AppointmentActive || a.Status == AppointmentPendingPayment
}

// CanBeCancelled returns true if the appointment may still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status.CanTransitionTo(AppointmentCancelled)
}

// ReminderKind identifies one of the fixed reminder lead times
type ReminderKind string

const (
	Reminder24h ReminderKind = "24h"
	Reminder1h  ReminderKind = "1h"
)

// Lead returns how long before the appointment start the reminder fires
func (k ReminderKind) Lead() time.Duration {
	switch k {
	case Reminder24h:
		return 24 * time.Hour
	case Reminder1h:
		return time.Hour
	default:
		return 0
	}
}

// ReminderKinds lists all lead times the scanner handles, longest first
var ReminderKinds = []ReminderKind{Reminder24h, Reminder1h}

// UpcomingAppointment is a reminder-scanner view of an active appointment
// joined with master and service names for the notification text
type UpcomingAppointment struct {
	ID          int64
	UserID      int64
	StartsAt    time.Time
	MasterName  string
	ServiceName string
}
