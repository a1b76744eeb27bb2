package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	paymentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с записями: отмена, списки
type Service struct {
	appointmentRepo AppointmentRepository
	paymentRepo     PaymentRepository
	catalogRepo     CatalogRepository
	auditRepo       AuditRepository
	txManager       TransactionManager
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	paymentRepo PaymentRepository,
	catalogRepo CatalogRepository,
	auditRepo AuditRepository,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		paymentRepo:     paymentRepo,
		catalogRepo:     catalogRepo,
		auditRepo:       auditRepo,
		txManager:       txManager,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Cancel отменяет запись пользователя. Связанный неоплаченный платёж тоже
// отменяется; оплаченный остаётся paid (возвраты - вне этого сервиса).
func (s *Service) Cancel(ctx context.Context, appointmentID, userID int64) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, userID)

	if appointmentID <= 0 || userID <= 0 {
		return fmt.Errorf("%w: ids must be positive", ErrInvalidInput)
	}

	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Чужая запись неотличима от несуществующей
	if appt.UserID != userID {
		s.logger.Warn("Cancel: appointment id=%d does not belong to user=%d", appointmentID, userID)
		return ErrAppointmentNotFound
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d already cancelled", appointmentID)
		return ErrAlreadyCancelled
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		paymentID, changed, err := s.appointmentRepo.CancelOwned(txCtx, appointmentID, userID)
		if err != nil {
			s.logger.Error("Cancel: failed to cancel appointment id=%d: %v", appointmentID, err)
			return fmt.Errorf("%w: Cancel - failed to cancel: %v", ErrInternal, err)
		}
		// Гонка с параллельной отменой: строка уже не держит слот
		if !changed {
			return ErrAlreadyCancelled
		}

		if paymentID != nil {
			if _, err := s.paymentRepo.CancelIfPending(txCtx, *paymentID); err != nil {
				s.logger.Error("Cancel: failed to cancel payment id=%d: %v", *paymentID, err)
				return fmt.Errorf("%w: Cancel - failed to cancel payment: %v", ErrInternal, err)
			}
		}

		entry := &domain.AuditEntry{
			ActorUserID: &userID,
			Action:      "cancel_appointment",
			Entity:      "Appointment",
			EntityID:    &appointmentID,
		}
		if err := s.auditRepo.Append(txCtx, entry); err != nil {
			s.logger.Error("Cancel: failed to append audit entry: %v", err)
			return fmt.Errorf("%w: Cancel - failed to append audit entry: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Cancel: appointment id=%d cancelled", appointmentID)
	return nil
}

// CancelPayment отменяет неоплаченный платёж вместе с записью.
// Оплаченный платёж отменить нельзя - для этого есть отмена записи.
func (s *Service) CancelPayment(ctx context.Context, paymentID, userID int64) error {
	s.logger.Info("CancelPayment: cancelling payment id=%d by user=%d", paymentID, userID)

	if paymentID <= 0 || userID <= 0 {
		return fmt.Errorf("%w: ids must be positive", ErrInvalidInput)
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Порядок блокировок как в подтверждении оплаты: платёж, затем запись
		payment, err := s.paymentRepo.GetByIDForUpdate(txCtx, paymentID)
		if err != nil {
			if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
				s.logger.Warn("CancelPayment: payment id=%d not found", paymentID)
				return ErrPaymentNotFound
			}
			s.logger.Error("CancelPayment: failed to lock payment id=%d: %v", paymentID, err)
			return fmt.Errorf("%w: CancelPayment - failed to get payment: %v", ErrInternal, err)
		}

		appt, err := s.appointmentRepo.GetByPaymentIDForUpdate(txCtx, paymentID, userID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				s.logger.Warn("CancelPayment: no appointment for payment id=%d, user id=%d", paymentID, userID)
				return ErrPaymentNotFound
			}
			s.logger.Error("CancelPayment: failed to lock appointment for payment id=%d: %v", paymentID, err)
			return fmt.Errorf("%w: CancelPayment - failed to get appointment: %v", ErrInternal, err)
		}

		if payment.Status == domain.PaymentCancelled || appt.Status == domain.AppointmentCancelled {
			s.logger.Warn("CancelPayment: payment id=%d already cancelled", paymentID)
			return ErrAlreadyCancelled
		}

		if !payment.Status.CanTransitionTo(domain.PaymentCancelled) {
			s.logger.Warn("CancelPayment: payment id=%d in status %s cannot be cancelled", paymentID, payment.Status)
			return ErrInvalidState
		}

		changed, err := s.paymentRepo.CancelIfPending(txCtx, paymentID)
		if err != nil {
			s.logger.Error("CancelPayment: failed to cancel payment id=%d: %v", paymentID, err)
			return fmt.Errorf("%w: CancelPayment - failed to cancel payment: %v", ErrInternal, err)
		}
		if !changed {
			return ErrInvalidState
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, appt.ID, domain.AppointmentCancelled); err != nil {
			s.logger.Error("CancelPayment: failed to cancel appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: CancelPayment - failed to cancel appointment: %v", ErrInternal, err)
		}

		entry := &domain.AuditEntry{
			ActorUserID: &userID,
			Action:      "cancel_payment",
			Entity:      "Payment",
			EntityID:    &paymentID,
		}
		if err := s.auditRepo.Append(txCtx, entry); err != nil {
			s.logger.Error("CancelPayment: failed to append audit entry: %v", err)
			return fmt.Errorf("%w: CancelPayment - failed to append audit entry: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("CancelPayment: payment id=%d cancelled", paymentID)
	return nil
}

// ListUserAppointments возвращает будущие записи пользователя, держащие слот,
// по возрастанию времени начала
func (s *Service) ListUserAppointments(ctx context.Context, userID int64) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListUserAppointments: fetching appointments for user=%d", userID)

	if userID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	appts, err := s.appointmentRepo.ListFutureByUser(ctx, userID, now)
	if err != nil {
		s.logger.Error("ListUserAppointments: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: ListUserAppointments - repository error: %v", ErrInternal, err)
	}

	views := make([]models.AppointmentView, 0, len(appts))
	masterNames := make(map[int64]string)
	serviceNames := make(map[int64]string)

	for _, appt := range appts {
		masterName, err := s.masterName(ctx, masterNames, appt.MasterID)
		if err != nil {
			return nil, err
		}
		serviceName, err := s.serviceName(ctx, serviceNames, appt.ServiceID)
		if err != nil {
			return nil, err
		}
		views = append(views, models.FromDomainAppointment(appt, masterName, serviceName))
	}

	s.logger.Info("ListUserAppointments: fetched %d appointments for user=%d", len(views), userID)
	return &models.AppointmentListResponse{Appointments: views}, nil
}

// ListMasterDay возвращает активные записи мастера на календарную дату
func (s *Service) ListMasterDay(ctx context.Context, masterID int64, date time.Time) (*models.MasterDayResponse, error) {
	s.logger.Info("ListMasterDay: fetching appointments for master=%d, date=%s",
		masterID, date.Format(domain.DateFormat))

	if masterID <= 0 {
		return nil, fmt.Errorf("%w: masterID must be positive", ErrInvalidInput)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if _, err := s.catalogRepo.GetMaster(ctx, masterID); err != nil {
		if errors.Is(err, catalogRepo.ErrMasterNotFound) {
			s.logger.Warn("ListMasterDay: master id=%d not found", masterID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("ListMasterDay: failed to get master id=%d: %v", masterID, err)
		return nil, fmt.Errorf("%w: ListMasterDay - failed to get master: %v", ErrInternal, err)
	}

	year, month, day := date.Date()
	from := time.Date(year, month, day, 0, 0, 0, 0, s.location)
	to := from.AddDate(0, 0, 1)

	appts, err := s.appointmentRepo.ListByMasterDay(ctx, masterID, from, to)
	if err != nil {
		s.logger.Error("ListMasterDay: repository error for master=%d: %v", masterID, err)
		return nil, fmt.Errorf("%w: ListMasterDay - repository error: %v", ErrInternal, err)
	}

	views := make([]models.MasterDayView, 0, len(appts))
	serviceNames := make(map[int64]string)

	for _, appt := range appts {
		serviceName, err := s.serviceName(ctx, serviceNames, appt.ServiceID)
		if err != nil {
			return nil, err
		}
		views = append(views, models.MasterDayView{
			ID:          appt.ID,
			UserID:      appt.UserID,
			ServiceID:   appt.ServiceID,
			ServiceName: serviceName,
			StartsAt:    appt.StartsAt,
			EndsAt:      appt.EndsAt,
		})
	}

	s.logger.Info("ListMasterDay: fetched %d appointments for master=%d", len(views), masterID)
	return &models.MasterDayResponse{MasterID: masterID, Date: from, Appointments: views}, nil
}

func (s *Service) masterName(ctx context.Context, cache map[int64]string, id int64) (string, error) {
	if name, ok := cache[id]; ok {
		return name, nil
	}
	master, err := s.catalogRepo.GetMaster(ctx, id)
	if err != nil {
		s.logger.Error("failed to get master id=%d: %v", id, err)
		return "", fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
	}
	cache[id] = master.Name
	return master.Name, nil
}

func (s *Service) serviceName(ctx context.Context, cache map[int64]string, id int64) (string, error) {
	if name, ok := cache[id]; ok {
		return name, nil
	}
	service, err := s.catalogRepo.GetService(ctx, id)
	if err != nil {
		s.logger.Error("failed to get service id=%d: %v", id, err)
		return "", fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	cache[id] = service.Name
	return service.Name, nil
}
