package create_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/payments"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
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

type fakeUserRepo struct {
	upserted []int64
}

func (f *fakeUserRepo) Upsert(ctx context.Context, id int64, username *string) error {
	f.upserted = append(f.upserted, id)
	return nil
}

type fakeAppointmentRepo struct {
	createFunc func(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	created    []*domain.Appointment
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if f.createFunc != nil {
		return f.createFunc(ctx, appt)
	}
	appt.ID = 100
	appt.CreatedAt = time.Now()
	f.created = append(f.created, appt)
	return appt, nil
}

type fakePaymentRepo struct {
	created  []*domain.Payment
	payURLs  map[int64]string
	rolledUp bool
}

func (f *fakePaymentRepo) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	p.ID = int64(len(f.created)) + 7
	p.CreatedAt = time.Now()
	f.created = append(f.created, p)
	return p, nil
}

func (f *fakePaymentRepo) SetPayURL(ctx context.Context, id int64, payURL string) error {
	if f.payURLs == nil {
		f.payURLs = make(map[int64]string)
	}
	f.payURLs[id] = payURL
	return nil
}

type fakeProvider struct {
	intent *payments.Intent
	err    error
	calls  int
}

func (f *fakeProvider) CreateIntent(ctx context.Context, amountCents int64, currency, description string) (*payments.Intent, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.intent, nil
}

type fakeRegistry struct {
	provider payments.Provider
}

func (f *fakeRegistry) Get(name domain.PaymentProviderName) (payments.Provider, error) {
	return f.provider, nil
}

// fakeTxManager выполняет fn без реальной транзакции и запоминает исход
type fakeTxManager struct {
	calls      int
	rolledBack bool
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if err := fn(ctx); err != nil {
		f.rolledBack = true
		return err
	}
	return nil
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

type ucFixture struct {
	catalog      *fakeCatalogRepo
	users        *fakeUserRepo
	appointments *fakeAppointmentRepo
	paymentsRepo *fakePaymentRepo
	provider     *fakeProvider
	tx           *fakeTxManager
	uc           *UseCase
}

var now = time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)

func newFixture() *ucFixture {
	f := &ucFixture{
		catalog:      &fakeCatalogRepo{},
		users:        &fakeUserRepo{},
		appointments: &fakeAppointmentRepo{},
		paymentsRepo: &fakePaymentRepo{},
		provider:     &fakeProvider{intent: &payments.Intent{ExternalID: "ext-123"}},
		tx:           &fakeTxManager{},
	}

	f.uc = NewUseCase(
		f.catalog,
		f.users,
		f.appointments,
		f.paymentsRepo,
		&fakeRegistry{provider: f.provider},
		f.tx,
		Settings{
			Provider:        domain.ProviderDummy,
			Currency:        "RUB",
			DummyPayURLBase: "https://pay.test/dummy",
		},
		nopLogger{},
	)
	f.uc.timeProvider = &fixedTimeProvider{now: now}
	return f
}

func validRequest() *Request {
	return &Request{
		UserID:    501,
		Username:  ptr.Ptr("anna_client"),
		MasterID:  1,
		ServiceID: 2,
		StartsAt:  now.Add(24 * time.Hour),
	}
}

func TestExecute_CreatesAppointmentWithPayment(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, string(domain.AppointmentPendingPayment), resp.Status)
	assert.Equal(t, "Стрижка", resp.ServiceName)
	assert.Equal(t, int64(150000), resp.ServicePrice)
	assert.Equal(t, resp.StartsAt.Add(time.Hour), resp.EndsAt)

	// Платёж pending с external id от провайдера
	require.Len(t, f.paymentsRepo.created, 1)
	payment := f.paymentsRepo.created[0]
	assert.Equal(t, domain.PaymentPending, payment.Status)
	require.NotNil(t, payment.ExternalID)
	assert.Equal(t, "ext-123", *payment.ExternalID)

	// Провайдер не вернул URL - ссылка синтезируется по ID платежа
	require.NotNil(t, resp.PayURL)
	assert.Equal(t, "https://pay.test/dummy/7", *resp.PayURL)
	assert.Equal(t, "https://pay.test/dummy/7", f.paymentsRepo.payURLs[payment.ID])

	// Запись ссылается на платёж
	require.NotNil(t, resp.PaymentID)
	assert.Equal(t, payment.ID, *resp.PaymentID)

	assert.Equal(t, []int64{501}, f.users.upserted)
	assert.Equal(t, 1, f.tx.calls)
	assert.False(t, f.tx.rolledBack)
}

func TestExecute_ProviderHostedURLKept(t *testing.T) {
	f := newFixture()
	f.provider.intent = &payments.Intent{ExternalID: "ext-9", PayURL: "https://provider.test/pay/ext-9"}

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.NotNil(t, resp.PayURL)
	assert.Equal(t, "https://provider.test/pay/ext-9", *resp.PayURL)
	// Синтетическая ссылка не строится
	assert.Empty(t, f.paymentsRepo.payURLs)
}

func TestExecute_SlotTakenRollsBackPayment(t *testing.T) {
	f := newFixture()
	f.appointments.createFunc = func(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
		return nil, appointmentRepo.ErrSlotOverlap
	}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Вставка платежа произошла внутри той же транзакции и откатилась
	assert.True(t, f.tx.rolledBack)
}

func TestExecute_PastStartRejected(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.StartsAt = now.Add(-time.Hour)
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Старт ровно в текущий момент тоже не принимается
	req.StartsAt = now
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, 0, f.provider.calls)
	assert.Empty(t, f.paymentsRepo.created)
}

func TestExecute_MasterNotFound(t *testing.T) {
	f := newFixture()
	f.catalog.getMasterFunc = func(ctx context.Context, id int64) (*domain.Master, error) {
		return nil, catalogRepo.ErrMasterNotFound
	}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrMasterNotFound)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	f := newFixture()
	f.catalog.getServiceFunc = func(ctx context.Context, id int64) (*domain.Service, error) {
		return nil, catalogRepo.ErrServiceNotFound
	}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecuteWithoutPayment_CreatesActiveAppointment(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.ExecuteWithoutPayment(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.AppointmentActive), resp.Status)
	assert.Nil(t, resp.PaymentID)
	assert.Nil(t, resp.PayURL)
	assert.Empty(t, f.paymentsRepo.created)
	assert.Equal(t, 0, f.provider.calls)
}
