package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    PaymentStatus
		to      PaymentStatus
		allowed bool
	}{
		{"pending -> paid", PaymentPending, PaymentPaid, true},
		{"pending -> failed", PaymentPending, PaymentFailed, true},
		{"pending -> cancelled", PaymentPending, PaymentCancelled, true},
		{"pending -> refunded", PaymentPending, PaymentRefunded, false},
		{"paid -> refunded", PaymentPaid, PaymentRefunded, true},
		{"paid -> cancelled", PaymentPaid, PaymentCancelled, false},
		{"cancelled -> paid", PaymentCancelled, PaymentPaid, false},
		{"failed -> pending", PaymentFailed, PaymentPending, false},
		{"refunded -> paid", PaymentRefunded, PaymentPaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPaymentStatus_IsValid(t *testing.T) {
	assert.True(t, PaymentPending.IsValid())
	assert.True(t, PaymentRefunded.IsValid())
	assert.False(t, PaymentStatus("declined").IsValid())
}
