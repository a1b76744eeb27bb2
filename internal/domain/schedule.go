package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Master represents the person being booked
type Master struct {
	ID          int64
	Name        string
	Description *string

	// TgUserID links the master to a client identity when the master
	// operates the bot themselves (optional)
	TgUserID *int64
}

// Service represents a bookable offering with fixed duration and price
type Service struct {
	ID              int64
	Name            string
	Description     *string
	DurationMinutes int
	PriceCents      int64
}

// Duration returns the service duration as time.Duration
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// WorkingHours задаёт рабочее окно мастера на день недели.
// На пару (master, weekday) существует не более одной строки - upsert заменяет прежнюю.
type WorkingHours struct {
	ID        int64
	MasterID  int64
	Weekday   int // 0=Mon ... 6=Sun (ISO)
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Break - перерыв мастера на день недели; перерывов на день может быть несколько
type Break struct {
	ID        int64
	MasterID  int64
	Weekday   int
	StartTime types.TimeString
	EndTime   types.TimeString
}

// DayOff - выходной день мастера; наличие строки полностью гасит доступность
// на эту дату вне зависимости от рабочих часов
type DayOff struct {
	ID       int64
	MasterID int64
	Date     time.Time
	Reason   *string
}

// TimeInterval is a half-open interval [Start, End)
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect:
// Start < other.End && End > other.Start. Touching intervals do not overlap.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// DaySchedule is a master's resolved working window for one calendar date.
// A nil *DaySchedule means the master has a day off (no availability).
type DaySchedule struct {
	Window TimeInterval
	Breaks []TimeInterval
}

// ScheduleSettings - глобальные настройки расписания, явно прокидываются в
// резолвер и генератор слотов (не глобальное состояние)
type ScheduleSettings struct {
	Location          *time.Location
	FallbackStartHour int // используется, когда у мастера нет явных рабочих часов
	FallbackEndHour   int
	SlotMinutes       int
}

// ISOWeekday converts time.Weekday to the 0=Mon..6=Sun convention used by
// the schedule tables
func ISOWeekday(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}
