package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func interval(startHour, endHour int) TimeInterval {
	day := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	return TimeInterval{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestTimeInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     TimeInterval
		overlaps bool
	}{
		{"identical", interval(10, 12), interval(10, 12), true},
		{"partial overlap", interval(10, 12), interval(11, 13), true},
		{"contained", interval(10, 14), interval(11, 12), true},
		{"touching edges do not overlap", interval(10, 12), interval(12, 14), false},
		{"disjoint", interval(10, 11), interval(13, 14), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.overlaps, tt.b.Overlaps(tt.a))
		})
	}
}

func TestISOWeekday(t *testing.T) {
	// 2025-10-13 is a Monday
	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

	for offset, want := range []int{0, 1, 2, 3, 4, 5, 6} {
		date := monday.AddDate(0, 0, offset)
		assert.Equal(t, want, ISOWeekday(date), "date %s", date.Format("2006-01-02"))
	}
}

func TestService_Duration(t *testing.T) {
	svc := &Service{DurationMinutes: 90}
	assert.Equal(t, 90*time.Minute, svc.Duration())
}
