package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
)

// Settings настройки платежного контура usecase
type Settings struct {
	Provider        domain.PaymentProviderName
	Currency        string
	DummyPayURLBase string
}

// UseCase use case создания записи с платежом
type UseCase struct {
	catalogRepo     CatalogRepository
	userRepo        UserRepository
	appointmentRepo AppointmentRepository
	paymentRepo     PaymentRepository
	providers       ProviderRegistry
	txManager       TransactionManager
	settings        Settings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalogRepo CatalogRepository,
	userRepo UserRepository,
	appointmentRepo AppointmentRepository,
	paymentRepo PaymentRepository,
	providers ProviderRegistry,
	txManager TransactionManager,
	settings Settings,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalogRepo:     catalogRepo,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
		paymentRepo:     paymentRepo,
		providers:       providers,
		txManager:       txManager,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute создает запись в статусе pending_payment вместе с платежом.
// Платёж и запись вставляются в одной транзакции: при нарушении exclusion
// constraint (слот занят) откатывается всё, платёж-сирота не остаётся.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: user=%d, master=%d, service=%d, starts_at=%s",
		req.UserID, req.MasterID, req.ServiceID, req.StartsAt.Format(domain.DateTimeFormat))

	service, err := uc.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	// Интент у провайдера создаём до транзакции: внешний вызов не должен
	// держать соединение с БД
	provider, err := uc.providers.Get(uc.settings.Provider)
	if err != nil {
		uc.logger.Error("CreateAppointment: provider %q not registered: %v", uc.settings.Provider, err)
		return nil, fmt.Errorf("%w: failed to get payment provider: %v", ErrInternal, err)
	}

	description := fmt.Sprintf("%s, %s", service.Name, req.StartsAt.Format(domain.DateTimeFormat))
	intent, err := provider.CreateIntent(ctx, service.PriceCents, uc.settings.Currency, description)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to create payment intent: %v", err)
		return nil, fmt.Errorf("%w: failed to create payment intent: %v", ErrInternal, err)
	}

	var createdAppt *domain.Appointment
	var createdPayment *domain.Payment

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		payment := &domain.Payment{
			Provider:    uc.settings.Provider,
			Status:      domain.PaymentPending,
			AmountCents: service.PriceCents,
			Currency:    uc.settings.Currency,
			ExternalID:  &intent.ExternalID,
		}
		if intent.PayURL != "" {
			payment.PayURL = &intent.PayURL
		}

		payment, err := uc.paymentRepo.Create(txCtx, payment)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create payment: %v", err)
			return fmt.Errorf("%w: failed to create payment: %v", ErrInternal, err)
		}

		// Провайдер не вернул hosted URL - строим синтетическую ссылку по ID платежа
		if payment.PayURL == nil {
			payURL := fmt.Sprintf("%s/%d", uc.settings.DummyPayURLBase, payment.ID)
			if err := uc.paymentRepo.SetPayURL(txCtx, payment.ID, payURL); err != nil {
				uc.logger.Error("CreateAppointment: failed to set pay url: %v", err)
				return fmt.Errorf("%w: failed to set pay url: %v", ErrInternal, err)
			}
			payment.PayURL = &payURL
		}

		appt, err := uc.insertAppointment(txCtx, req, service, domain.AppointmentPendingPayment, &payment.ID)
		if err != nil {
			return err
		}

		createdAppt = appt
		createdPayment = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: created appointment id=%d, payment id=%d",
		createdAppt.ID, createdPayment.ID)

	return buildResponse(createdAppt, service, createdPayment), nil
}

// ExecuteWithoutPayment создает запись сразу в статусе active, без платежа.
// Используется для бесплатных услуг и записи мастером вручную.
func (uc *UseCase) ExecuteWithoutPayment(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: user=%d, master=%d, service=%d, starts_at=%s (no payment)",
		req.UserID, req.MasterID, req.ServiceID, req.StartsAt.Format(domain.DateTimeFormat))

	service, err := uc.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	var createdAppt *domain.Appointment
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := uc.insertAppointment(txCtx, req, service, domain.AppointmentActive, nil)
		if err != nil {
			return err
		}
		createdAppt = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: created appointment id=%d without payment", createdAppt.ID)

	return buildResponse(createdAppt, service, nil), nil
}

// prepare - общая часть обоих сценариев: валидация, проверка мастера и услуги,
// регистрация пользователя
func (uc *UseCase) prepare(ctx context.Context, req *Request) (*domain.Service, error) {
	if err := validateRequest(req, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	if _, err := uc.catalogRepo.GetMaster(ctx, req.MasterID); err != nil {
		if errors.Is(err, catalogRepo.ErrMasterNotFound) {
			uc.logger.Warn("CreateAppointment: master id=%d not found", req.MasterID)
			return nil, ErrMasterNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get master id=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
	}

	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// Пользователь создаётся при первом обращении
	if err := uc.userRepo.Upsert(ctx, req.UserID, req.Username); err != nil {
		uc.logger.Error("CreateAppointment: failed to upsert user id=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to upsert user: %v", ErrInternal, err)
	}

	return service, nil
}

func (uc *UseCase) insertAppointment(
	ctx context.Context,
	req *Request,
	service *domain.Service,
	status domain.AppointmentStatus,
	paymentID *int64,
) (*domain.Appointment, error) {
	appt := &domain.Appointment{
		UserID:    req.UserID,
		MasterID:  req.MasterID,
		ServiceID: req.ServiceID,
		StartsAt:  req.StartsAt,
		EndsAt:    req.StartsAt.Add(service.Duration()),
		Status:    status,
		PaymentID: paymentID,
	}

	created, err := uc.appointmentRepo.Create(ctx, appt)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotOverlap) {
			uc.logger.Warn("CreateAppointment: slot taken, master=%d, starts_at=%s",
				req.MasterID, req.StartsAt.Format(domain.DateTimeFormat))
			return nil, ErrSlotTaken
		}
		uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
	}

	return created, nil
}

func buildResponse(appt *domain.Appointment, service *domain.Service, payment *domain.Payment) *Response {
	resp := &Response{
		ID:           appt.ID,
		UserID:       appt.UserID,
		MasterID:     appt.MasterID,
		StartsAt:     appt.StartsAt,
		EndsAt:       appt.EndsAt,
		Status:       string(appt.Status),
		ServiceName:  service.Name,
		ServicePrice: service.PriceCents,
		CreatedAt:    appt.CreatedAt,
	}
	if payment != nil {
		resp.PaymentID = &payment.ID
		resp.PayURL = payment.PayURL
	}
	return resp
}
