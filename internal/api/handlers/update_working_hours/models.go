package update_working_hours

// UpdateWorkingHoursRequest HTTP request model
type UpdateWorkingHoursRequest struct {
	Weekday   int    `json:"weekday"`   // 0=понедельник ... 6=воскресенье
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "20:00"
}
