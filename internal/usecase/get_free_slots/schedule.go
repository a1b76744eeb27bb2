package get_free_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
)

// resolveDaySchedule вычисляет рабочее окно мастера на дату.
// Приоритет: выходной гасит всё -> явные рабочие часы на день недели ->
// фолбэк из глобальных настроек. nil означает выходной.
func (uc *UseCase) resolveDaySchedule(
	ctx context.Context,
	masterID int64,
	date time.Time,
	settings domain.ScheduleSettings,
) (*domain.DaySchedule, error) {
	dayOff, err := uc.scheduleRepo.HasDayOff(ctx, masterID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check day off: %v", ErrInternal, err)
	}
	if dayOff {
		return nil, nil
	}

	weekday := domain.ISOWeekday(date)

	var window domain.TimeInterval
	hours, err := uc.scheduleRepo.GetWorkingHours(ctx, masterID, weekday)
	switch {
	case err == nil:
		start, err := hours.StartTime.At(date, settings.Location)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to resolve window start: %v", ErrInternal, err)
		}
		end, err := hours.EndTime.At(date, settings.Location)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to resolve window end: %v", ErrInternal, err)
		}
		window = domain.TimeInterval{Start: start, End: end}
	case errors.Is(err, scheduleRepo.ErrWorkingHoursNotFound):
		// Рабочие часы не настроены - работаем по глобальным
		year, month, day := date.Date()
		window = domain.TimeInterval{
			Start: time.Date(year, month, day, settings.FallbackStartHour, 0, 0, 0, settings.Location),
			End:   time.Date(year, month, day, settings.FallbackEndHour, 0, 0, 0, settings.Location),
		}
	default:
		return nil, fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}

	breakRows, err := uc.scheduleRepo.ListBreaks(ctx, masterID, weekday)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list breaks: %v", ErrInternal, err)
	}

	breaks := make([]domain.TimeInterval, 0, len(breakRows))
	for _, b := range breakRows {
		start, err := b.StartTime.At(date, settings.Location)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to resolve break start: %v", ErrInternal, err)
		}
		end, err := b.EndTime.At(date, settings.Location)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to resolve break end: %v", ErrInternal, err)
		}
		breaks = append(breaks, domain.TimeInterval{Start: start, End: end})
	}

	return &domain.DaySchedule{Window: window, Breaks: breaks}, nil
}
