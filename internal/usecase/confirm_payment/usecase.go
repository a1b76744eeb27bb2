package confirm_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	paymentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/payment"
)

// UseCase use case подтверждения оплаты
type UseCase struct {
	paymentRepo     PaymentRepository
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	paymentRepo PaymentRepository,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		paymentRepo:     paymentRepo,
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute подтверждает оплату: payment pending -> paid, запись
// pending_payment -> active. Обе строки блокируются FOR UPDATE в одной
// транзакции, порядок захвата везде одинаковый: сначала платёж, потом запись.
// Повторный вызов по уже оплаченному платежу идемпотентен, пока ни платёж,
// ни запись не отменены.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmPayment: payment=%d, user=%d", req.PaymentID, req.UserID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmPayment: validation failed: %v", err)
		return nil, err
	}

	var resp *Response

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		payment, err := uc.paymentRepo.GetByIDForUpdate(txCtx, req.PaymentID)
		if err != nil {
			if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
				uc.logger.Warn("ConfirmPayment: payment id=%d not found", req.PaymentID)
				return ErrPaymentNotFound
			}
			uc.logger.Error("ConfirmPayment: failed to lock payment id=%d: %v", req.PaymentID, err)
			return fmt.Errorf("%w: failed to get payment: %v", ErrInternal, err)
		}

		appt, err := uc.appointmentRepo.GetByPaymentIDForUpdate(txCtx, req.PaymentID, req.UserID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				// Запись чужая или платёж ни к чему не привязан - для клиента
				// неразличимо с отсутствием платежа
				uc.logger.Warn("ConfirmPayment: no appointment for payment id=%d, user id=%d",
					req.PaymentID, req.UserID)
				return ErrPaymentNotFound
			}
			uc.logger.Error("ConfirmPayment: failed to lock appointment for payment id=%d: %v",
				req.PaymentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// Отмена любой из сторон проверяется до идемпотентной ветки: запись
		// могли отменить уже после оплаты, и такой платёж подтверждать нельзя
		if payment.Status == domain.PaymentCancelled || appt.Status == domain.AppointmentCancelled {
			uc.logger.Warn("ConfirmPayment: cancelled state for payment id=%d (payment=%s, appointment=%s)",
				payment.ID, payment.Status, appt.Status)
			return ErrAlreadyCancelled
		}

		// Повторное подтверждение: успех без изменений. Если запись почему-то
		// осталась в pending_payment - доводим её до active.
		if payment.Status == domain.PaymentPaid {
			if appt.Status == domain.AppointmentPendingPayment {
				if err := uc.appointmentRepo.UpdateStatus(txCtx, appt.ID, domain.AppointmentActive); err != nil {
					uc.logger.Error("ConfirmPayment: failed to repair appointment id=%d: %v", appt.ID, err)
					return fmt.Errorf("%w: failed to activate appointment: %v", ErrInternal, err)
				}
				appt.Status = domain.AppointmentActive
			}
			uc.logger.Info("ConfirmPayment: payment id=%d already paid, idempotent success", payment.ID)
			resp = buildResponse(appt, payment)
			return nil
		}

		if !payment.Status.CanTransitionTo(domain.PaymentPaid) {
			uc.logger.Warn("ConfirmPayment: payment id=%d in status %s is not confirmable",
				payment.ID, payment.Status)
			return ErrInvalidState
		}

		if !appt.Status.CanTransitionTo(domain.AppointmentActive) {
			uc.logger.Warn("ConfirmPayment: appointment id=%d in status %s cannot be activated",
				appt.ID, appt.Status)
			return ErrInvalidState
		}

		paidAt := uc.timeProvider.Now()
		if err := uc.paymentRepo.MarkPaid(txCtx, payment.ID, paidAt); err != nil {
			uc.logger.Error("ConfirmPayment: failed to mark payment id=%d paid: %v", payment.ID, err)
			return fmt.Errorf("%w: failed to mark payment paid: %v", ErrInternal, err)
		}
		if err := uc.appointmentRepo.UpdateStatus(txCtx, appt.ID, domain.AppointmentActive); err != nil {
			uc.logger.Error("ConfirmPayment: failed to activate appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to activate appointment: %v", ErrInternal, err)
		}

		payment.Status = domain.PaymentPaid
		payment.PaidAt = &paidAt
		appt.Status = domain.AppointmentActive

		resp = buildResponse(appt, payment)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("ConfirmPayment: payment id=%d confirmed, appointment id=%d active",
		resp.PaymentID, resp.AppointmentID)

	return resp, nil
}

func buildResponse(appt *domain.Appointment, payment *domain.Payment) *Response {
	return &Response{
		AppointmentID:     appt.ID,
		PaymentID:         payment.ID,
		AppointmentStatus: string(appt.Status),
		PaymentStatus:     string(payment.Status),
		PaidAt:            payment.PaidAt,
	}
}
