package get_free_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeCatalogRepo struct {
	getMasterFunc  func(ctx context.Context, id int64) (*domain.Master, error)
	getServiceFunc func(ctx context.Context, id int64) (*domain.Service, error)
}

func (f *fakeCatalogRepo) GetMaster(ctx context.Context, id int64) (*domain.Master, error) {
	if f.getMasterFunc != nil {
		return f.getMasterFunc(ctx, id)
	}
	return &domain.Master{ID: id, Name: "Анна"}, nil
}

func (f *fakeCatalogRepo) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	if f.getServiceFunc != nil {
		return f.getServiceFunc(ctx, id)
	}
	return &domain.Service{ID: id, Name: "Стрижка", DurationMinutes: 60, PriceCents: 150000}, nil
}

type fakeScheduleRepo struct {
	hasDayOffFunc       func(ctx context.Context, masterID int64, date time.Time) (bool, error)
	getWorkingHoursFunc func(ctx context.Context, masterID int64, weekday int) (*domain.WorkingHours, error)
	listBreaksFunc      func(ctx context.Context, masterID int64, weekday int) ([]*domain.Break, error)
}

func (f *fakeScheduleRepo) HasDayOff(ctx context.Context, masterID int64, date time.Time) (bool, error) {
	if f.hasDayOffFunc != nil {
		return f.hasDayOffFunc(ctx, masterID, date)
	}
	return false, nil
}

func (f *fakeScheduleRepo) GetWorkingHours(ctx context.Context, masterID int64, weekday int) (*domain.WorkingHours, error) {
	if f.getWorkingHoursFunc != nil {
		return f.getWorkingHoursFunc(ctx, masterID, weekday)
	}
	return nil, scheduleRepo.ErrWorkingHoursNotFound
}

func (f *fakeScheduleRepo) ListBreaks(ctx context.Context, masterID int64, weekday int) ([]*domain.Break, error) {
	if f.listBreaksFunc != nil {
		return f.listBreaksFunc(ctx, masterID, weekday)
	}
	return nil, nil
}

type fakeAppointmentRepo struct {
	getBusyIntervalsFunc func(ctx context.Context, masterID int64, from, to time.Time) ([]domain.TimeInterval, error)
}

func (f *fakeAppointmentRepo) GetBusyIntervals(ctx context.Context, masterID int64, from, to time.Time) ([]domain.TimeInterval, error) {
	if f.getBusyIntervalsFunc != nil {
		return f.getBusyIntervalsFunc(ctx, masterID, from, to)
	}
	return nil, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func testSettings() domain.ScheduleSettings {
	return domain.ScheduleSettings{
		Location:          time.UTC,
		FallbackStartHour: 10,
		FallbackEndHour:   20,
		SlotMinutes:       60,
	}
}

func newTestUseCase(catalog *fakeCatalogRepo, schedule *fakeScheduleRepo, appointments *fakeAppointmentRepo, now time.Time) *UseCase {
	uc := NewUseCase(catalog, schedule, appointments, testSettings(), nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

// 2025-10-15 is a Wednesday
var testDate = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

func TestExecute_FallbackHoursFullDay(t *testing.T) {
	now := testDate.AddDate(0, 0, -1)
	uc := newTestUseCase(&fakeCatalogRepo{}, &fakeScheduleRepo{}, &fakeAppointmentRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{MasterID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)

	// 10:00-20:00, услуга 60 минут, шаг 60 минут: старты 10:00..19:00
	require.Len(t, resp.Slots, 10)
	assert.Equal(t, testDate.Add(10*time.Hour), resp.Slots[0].StartsAt)
	assert.Equal(t, testDate.Add(11*time.Hour), resp.Slots[0].EndsAt)
	assert.Equal(t, testDate.Add(19*time.Hour), resp.Slots[9].StartsAt)
	assert.Equal(t, testDate.Add(20*time.Hour), resp.Slots[9].EndsAt)
}

func TestExecute_BusyIntervalExcluded(t *testing.T) {
	now := testDate.AddDate(0, 0, -1)
	appointments := &fakeAppointmentRepo{
		getBusyIntervalsFunc: func(ctx context.Context, masterID int64, from, to time.Time) ([]domain.TimeInterval, error) {
			return []domain.TimeInterval{
				{Start: testDate.Add(13 * time.Hour), End: testDate.Add(14 * time.Hour)},
			}, nil
		},
	}
	uc := newTestUseCase(&fakeCatalogRepo{}, &fakeScheduleRepo{}, appointments, now)

	resp, err := uc.Execute(context.Background(), &Request{MasterID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 9)
	for _, slot := range resp.Slots {
		assert.NotEqual(t, testDate.Add(13*time.Hour), slot.StartsAt)
	}
}

func TestExecute_LongServiceSkipsPartialOverlaps(t *testing.T) {
	// Услуга 90 минут при шаге 60: слот 12:00-13:30 пересекает занятый
	// интервал 13:00-14:00 и отбрасывается, как и 13:00 и 14:00 старты
	now := testDate.AddDate(0, 0, -1)
	catalog := &fakeCatalogRepo{
		getServiceFunc: func(ctx context.Context, id int64) (*domain.Service, error) {
			return &domain.Service{ID: id, Name: "Окрашивание", DurationMinutes: 90}, nil
		},
	}
	appointments := &fakeAppointmentRepo{
		getBusyIntervalsFunc: func(ctx context.Context, masterID int64, from, to time.Time) ([]domain.TimeInterval, error) {
			return []domain.TimeInterval{
				{Start: testDate.Add(13 * time.Hour), End: testDate.Add(14 * time.Hour)},
			}, nil
		},
	}
	uc := newTestUseCase(catalog, &fakeScheduleRepo{}, appointments, now)

	resp, err := uc.Execute(context.Background(), &Request{MasterID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)

	starts := make([]time.Time, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		starts = append(starts, slot.StartsAt)
	}
	assert.NotContains(t, starts, testDate.Add(12*time.Hour))
	assert.NotContains(t, starts, testDate.Add(13*time.Hour))
	assert.Contains(t, starts, testDate.Add(14*time.Hour))
	// 18:30 - последний влезающий конец, старт 18:00 допустим только если
	// 18:00+90m <= 20:00
	assert.Contains(t, starts, testDate.Add(18*time.Hour))
	assert.NotContains(t, starts, testDate.Add(19*time.Hour))
}

func TestExecute_ExplicitWorkingHoursAndBreak(t *testing.T) {
	now := testDate.AddDate(0, 0, -1)
	schedule := &fakeScheduleRepo{
		getWorkingHoursFunc: func(ctx context.Context, masterID int64, weekday int) (*domain.WorkingHours, error) {
			assert.Equal(t, 2, weekday) // среда
			return &domain.WorkingHours{
				MasterID:  masterID,
				Weekday:   weekday,
				StartTime: types.TimeString("12:00"),
				EndTime:   types.TimeString("16:00"),
			}, nil
		},
		listBreaksFunc: func(ctx context.Context, masterID int64, weekday int) ([]*domain.Break, error) {
			return []*domain.Break{
				{MasterID: masterID, Weekday: weekday, StartTime: "13:00", EndTime: "14:00"},
			}, nil
		},
	}
	uc := newTestUseCase(&fakeCatalogRepo{}, schedule, &fakeAppointmentRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{MasterID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)

	// Окно 12:00-16:00 с перерывом 13:00-14:00: остаются 12:00, 14:00, 15:00
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, testDate.Add(12*time.Hour), resp.Slots[0].StartsAt)
	assert.Equal(t, testDate.Add(14*time.Hour), resp.Slots[1].StartsAt)
	assert.Equal(t, testDate.Add(15*time.Hour), resp.Slots[2].StartsAt)
}

func TestExecute_DayOffReturnsNoSlots(t *testing.T) {
	now := testDate.AddDate(0, 0, -1)
	schedule := &fakeScheduleRepo{
		hasDayOffFunc: func(ctx context.Context, masterID int64, date time.Time) (bool, error) {
			return true, nil
		},
	}
	uc := newTestUseCase(&fakeCatalogRepo{}, schedule, &fakeAppointmentRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{MasterID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_PastSlotsFilteredForToday(t *testing.T) {
	// Запрос на сегодня в 12:30: слоты 10:00-12:00 уже в прошлом,
	// слот 12:00 начался - его тоже не показываем
	now := testDate.Add(12*time.Hour + 30*time.Minute)
	uc := newTestUseCase(&fakeCatalogRepo{}, &fakeScheduleRepo{}, &fakeAppointmentRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{MasterID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 7)
	assert.Equal(t, testDate.Add(13*time.Hour), resp.Slots[0].StartsAt)
}

func TestExecute_PastDateReturnsFullDay(t *testing.T) {
	// Для прошедшей даты фильтр по текущему времени не применяется -
	// возвращается весь день, как его видел бы запрос в ту дату
	now := testDate.AddDate(0, 0, 3).Add(15 * time.Hour)
	uc := newTestUseCase(&fakeCatalogRepo{}, &fakeScheduleRepo{}, &fakeAppointmentRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{MasterID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 10)
	assert.Equal(t, testDate.Add(10*time.Hour), resp.Slots[0].StartsAt)
}

func TestExecute_MasterNotFound(t *testing.T) {
	catalog := &fakeCatalogRepo{
		getMasterFunc: func(ctx context.Context, id int64) (*domain.Master, error) {
			return nil, catalogRepo.ErrMasterNotFound
		},
	}
	uc := newTestUseCase(catalog, &fakeScheduleRepo{}, &fakeAppointmentRepo{}, time.Now())

	_, err := uc.Execute(context.Background(), &Request{MasterID: 42, ServiceID: 1, Date: testDate})
	assert.ErrorIs(t, err, ErrMasterNotFound)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	catalog := &fakeCatalogRepo{
		getServiceFunc: func(ctx context.Context, id int64) (*domain.Service, error) {
			return nil, catalogRepo.ErrServiceNotFound
		},
	}
	uc := newTestUseCase(catalog, &fakeScheduleRepo{}, &fakeAppointmentRepo{}, time.Now())

	_, err := uc.Execute(context.Background(), &Request{MasterID: 1, ServiceID: 42, Date: testDate})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(&fakeCatalogRepo{}, &fakeScheduleRepo{}, &fakeAppointmentRepo{}, time.Now())

	_, err := uc.Execute(context.Background(), &Request{MasterID: 0, ServiceID: 1, Date: testDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{MasterID: 1, ServiceID: -1, Date: testDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{MasterID: 1, ServiceID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
