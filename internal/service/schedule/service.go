package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Service сервис управления расписанием мастеров
type Service struct {
	scheduleRepo ScheduleRepository
	catalogRepo  CatalogRepository
	auditRepo    AuditRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	auditRepo AuditRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		catalogRepo:  catalogRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// UpsertWorkingHours заменяет рабочие часы мастера на день недели
func (s *Service) UpsertWorkingHours(ctx context.Context, actorID, masterID int64, weekday int, start, end types.TimeString) error {
	s.logger.Info("UpsertWorkingHours: master=%d, weekday=%d, %s-%s", masterID, weekday, start, end)

	if err := s.validateWindow(ctx, masterID, weekday, start, end); err != nil {
		return err
	}

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.scheduleRepo.UpsertWorkingHours(txCtx, masterID, weekday, start, end); err != nil {
			s.logger.Error("UpsertWorkingHours: repository error for master=%d: %v", masterID, err)
			return fmt.Errorf("%w: UpsertWorkingHours - repository error: %v", ErrInternal, err)
		}

		return s.audit(txCtx, actorID, "set_working_hours", masterID, map[string]interface{}{
			"weekday": weekday,
			"start":   start.String(),
			"end":     end.String(),
		})
	})
}

// AddBreak добавляет перерыв мастеру на день недели
func (s *Service) AddBreak(ctx context.Context, actorID, masterID int64, weekday int, start, end types.TimeString) error {
	s.logger.Info("AddBreak: master=%d, weekday=%d, %s-%s", masterID, weekday, start, end)

	if err := s.validateWindow(ctx, masterID, weekday, start, end); err != nil {
		return err
	}

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.scheduleRepo.AddBreak(txCtx, masterID, weekday, start, end); err != nil {
			s.logger.Error("AddBreak: repository error for master=%d: %v", masterID, err)
			return fmt.Errorf("%w: AddBreak - repository error: %v", ErrInternal, err)
		}

		return s.audit(txCtx, actorID, "add_break", masterID, map[string]interface{}{
			"weekday": weekday,
			"start":   start.String(),
			"end":     end.String(),
		})
	})
}

// AddDayOff добавляет выходной мастера на дату
func (s *Service) AddDayOff(ctx context.Context, actorID, masterID int64, date time.Time, reason *string) error {
	s.logger.Info("AddDayOff: master=%d, date=%s", masterID, date.Format(domain.DateFormat))

	if masterID <= 0 {
		return fmt.Errorf("%w: masterID must be positive", ErrInvalidInput)
	}
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if reason != nil && len(*reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason is too long", ErrInvalidInput)
	}

	if err := s.checkMaster(ctx, masterID); err != nil {
		return err
	}

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.scheduleRepo.AddDayOff(txCtx, masterID, date, reason); err != nil {
			if errors.Is(err, scheduleRepo.ErrDayOffExists) {
				s.logger.Warn("AddDayOff: day off already exists, master=%d, date=%s",
					masterID, date.Format(domain.DateFormat))
				return ErrDayOffExists
			}
			s.logger.Error("AddDayOff: repository error for master=%d: %v", masterID, err)
			return fmt.Errorf("%w: AddDayOff - repository error: %v", ErrInternal, err)
		}

		return s.audit(txCtx, actorID, "add_day_off", masterID, map[string]interface{}{
			"date": date.Format(domain.DateFormat),
		})
	})
}

func (s *Service) validateWindow(ctx context.Context, masterID int64, weekday int, start, end types.TimeString) error {
	if masterID <= 0 {
		return fmt.Errorf("%w: masterID must be positive", ErrInvalidInput)
	}
	if weekday < 0 || weekday > 6 {
		return fmt.Errorf("%w: weekday must be 0..6", ErrInvalidInput)
	}
	if err := start.Validate(); err != nil {
		return fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
	}
	if err := end.Validate(); err != nil {
		return fmt.Errorf("%w: invalid end time: %v", ErrInvalidInput, err)
	}
	if !start.IsBefore(end) {
		return fmt.Errorf("%w: start must be before end", ErrInvalidInput)
	}

	return s.checkMaster(ctx, masterID)
}

func (s *Service) checkMaster(ctx context.Context, masterID int64) error {
	if _, err := s.catalogRepo.GetMaster(ctx, masterID); err != nil {
		if errors.Is(err, catalogRepo.ErrMasterNotFound) {
			s.logger.Warn("master id=%d not found", masterID)
			return ErrMasterNotFound
		}
		s.logger.Error("failed to get master id=%d: %v", masterID, err)
		return fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
	}
	return nil
}

func (s *Service) audit(ctx context.Context, actorID int64, action string, masterID int64, meta map[string]interface{}) error {
	entry := &domain.AuditEntry{
		ActorUserID: &actorID,
		Action:      action,
		Entity:      "Master",
		EntityID:    &masterID,
		Meta:        meta,
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		s.logger.Error("failed to append audit entry: %v", err)
		return fmt.Errorf("%w: failed to append audit entry: %v", ErrInternal, err)
	}
	return nil
}
