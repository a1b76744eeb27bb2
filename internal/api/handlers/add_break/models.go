package add_break

// AddBreakRequest HTTP request model
type AddBreakRequest struct {
	Weekday   int    `json:"weekday"`   // 0=понедельник ... 6=воскресенье
	StartTime string `json:"startTime"` // "13:00"
	EndTime   string `json:"endTime"`   // "14:00"
}
