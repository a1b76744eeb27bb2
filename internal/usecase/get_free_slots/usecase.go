package get_free_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
)

// UseCase use case получения свободных слотов мастера на дату
type UseCase struct {
	catalogRepo     CatalogRepository
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	settings        domain.ScheduleSettings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalogRepo CatalogRepository,
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	settings domain.ScheduleSettings,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalogRepo:     catalogRepo,
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения свободных слотов.
// Читает без транзакции: результат - снимок на момент запроса, слот может
// быть занят между просмотром и созданием записи (это ловит констрейнт БД).
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetFreeSlots: master=%d, service=%d, date=%s",
		req.MasterID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetFreeSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование мастера
	if _, err := uc.catalogRepo.GetMaster(ctx, req.MasterID); err != nil {
		if errors.Is(err, catalogRepo.ErrMasterNotFound) {
			uc.logger.Warn("GetFreeSlots: master id=%d not found", req.MasterID)
			return nil, ErrMasterNotFound
		}
		uc.logger.Error("GetFreeSlots: failed to get master id=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
	}

	// 3. Получаем услугу - она определяет длительность слота
	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetFreeSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetFreeSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Вычисляем рабочее окно на дату
	schedule, err := uc.resolveDaySchedule(ctx, req.MasterID, req.Date, uc.settings)
	if err != nil {
		uc.logger.Error("GetFreeSlots: failed to resolve day schedule: %v", err)
		return nil, err
	}

	// Выходной - слотов нет
	if schedule == nil {
		uc.logger.Info("GetFreeSlots: master id=%d has day off on %s",
			req.MasterID, req.Date.Format(domain.DateFormat))
		return &Response{
			MasterID:  req.MasterID,
			ServiceID: req.ServiceID,
			Date:      req.Date,
			Slots:     []Slot{},
		}, nil
	}

	// 5. Получаем занятые интервалы в пределах окна
	busy, err := uc.appointmentRepo.GetBusyIntervals(ctx, req.MasterID, schedule.Window.Start, schedule.Window.End)
	if err != nil {
		uc.logger.Error("GetFreeSlots: failed to get busy intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to get busy intervals: %v", ErrInternal, err)
	}

	// 6. Генерируем свободные слоты. Фильтр по текущему времени действует
	// только для сегодняшней даты, остальные даты возвращаются целиком
	var cutoff time.Time
	if now := uc.timeProvider.Now(); sameDay(req.Date, now, uc.settings.Location) {
		cutoff = now
	}
	slots := generateSlots(schedule, busy, service.DurationMinutes, uc.settings.SlotMinutes, cutoff)

	uc.logger.Info("GetFreeSlots: master=%d, date=%s: %d free slots",
		req.MasterID, req.Date.Format(domain.DateFormat), len(slots))

	return &Response{
		MasterID:  req.MasterID,
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Slots:     slots,
	}, nil
}
