package domain

import "time"

// PaymentStatus represents the lifecycle state of a payment
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentCancelled PaymentStatus = "cancelled"
)

// paymentTransitions is the explicit transition table of the payment state
// machine. failed and refunded stay representable for provider callbacks but
// are never produced by the in-scope flows.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentPaid, PaymentFailed, PaymentCancelled},
	PaymentPaid:      {PaymentRefunded},
	PaymentFailed:    {},
	PaymentRefunded:  {},
	PaymentCancelled: {},
}

// CanTransitionTo reports whether the transition s -> next is legal
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsValid reports whether s is a known status value
func (s PaymentStatus) IsValid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

// PaymentProviderName identifies a payment backend
type PaymentProviderName string

const (
	ProviderDummy    PaymentProviderName = "dummy"
	ProviderYookassa PaymentProviderName = "yookassa"
	ProviderStripe   PaymentProviderName = "stripe"
)

// Payment represents a payment intent created for an appointment.
// A payment belongs to at most one appointment (enforced by a unique
// back-reference on the appointments table).
type Payment struct {
	ID       int64
	Provider PaymentProviderName
	Status   PaymentStatus

	AmountCents int64
	Currency    string

	ExternalID *string
	PayURL     *string

	CreatedAt time.Time
	PaidAt    *time.Time
}
