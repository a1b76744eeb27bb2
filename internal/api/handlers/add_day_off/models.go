package add_day_off

// AddDayOffRequest HTTP request model
type AddDayOffRequest struct {
	Date   string  `json:"date"` // "2025-10-15"
	Reason *string `json:"reason,omitempty"`
}
