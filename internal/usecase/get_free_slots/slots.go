package get_free_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// generateSlots строит свободные слоты внутри рабочего окна.
// Кандидаты идут от начала окна с шагом stepMinutes, длительность слота -
// durationMinutes. Слот отбрасывается, если вылезает за конец окна,
// пересекает перерыв или занятый интервал, либо начинается не позже cutoff.
// Нулевой cutoff отключает фильтр по текущему времени: он действует только
// для сегодняшней даты.
func generateSlots(
	schedule *domain.DaySchedule,
	busy []domain.TimeInterval,
	durationMinutes int,
	stepMinutes int,
	cutoff time.Time,
) []Slot {
	slots := make([]Slot, 0)

	duration := time.Duration(durationMinutes) * time.Minute
	step := time.Duration(stepMinutes) * time.Minute

	for start := schedule.Window.Start; ; start = start.Add(step) {
		end := start.Add(duration)
		if end.After(schedule.Window.End) {
			break
		}

		// Начавшиеся и прошедшие слоты на сегодня не показываем
		if !cutoff.IsZero() && !start.After(cutoff) {
			continue
		}

		candidate := domain.TimeInterval{Start: start, End: end}
		if overlapsAny(candidate, schedule.Breaks) || overlapsAny(candidate, busy) {
			continue
		}

		slots = append(slots, Slot{StartsAt: start, EndsAt: end})
	}

	return slots
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

func overlapsAny(candidate domain.TimeInterval, intervals []domain.TimeInterval) bool {
	for _, iv := range intervals {
		if candidate.Overlaps(iv) {
			return true
		}
	}
	return false
}
