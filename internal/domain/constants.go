package domain

// Time format constants
const (
	TimeFormat     = "15:04"            // HH:MM
	DateFormat     = "2006-01-02"       // YYYY-MM-DD
	DateTimeFormat = "2006-01-02 15:04" // YYYY-MM-DD HH:MM
)

// Default schedule configuration
const (
	DefaultWorkStartHour = 10
	DefaultWorkEndHour   = 20
	DefaultSlotMinutes   = 60
)

// Business validation constants
const (
	MinServiceDurationMinutes = 1
	MaxServiceDurationMinutes = 24 * 60
	MinutesPerDay             = 24 * 60
	MaxNameLength             = 80
	MaxReasonLength           = 500
)
