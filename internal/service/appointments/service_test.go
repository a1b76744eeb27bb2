package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	paymentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/payment"
)

type fakeAppointmentRepo struct {
	getByIDFunc          func(ctx context.Context, id int64) (*domain.Appointment, error)
	getByPaymentIDFunc   func(ctx context.Context, paymentID, userID int64) (*domain.Appointment, error)
	cancelOwnedFunc      func(ctx context.Context, id, userID int64) (*int64, bool, error)
	listFutureByUserFunc func(ctx context.Context, userID int64, now time.Time) ([]*domain.Appointment, error)
	listByMasterDayFunc  func(ctx context.Context, masterID int64, from, to time.Time) ([]*domain.Appointment, error)
	statusUpdates        map[int64]domain.AppointmentStatus
}

func (f *fakeAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	if f.getByIDFunc != nil {
		return f.getByIDFunc(ctx, id)
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (f *fakeAppointmentRepo) GetByPaymentIDForUpdate(ctx context.Context, paymentID, userID int64) (*domain.Appointment, error) {
	if f.getByPaymentIDFunc != nil {
		return f.getByPaymentIDFunc(ctx, paymentID, userID)
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (f *fakeAppointmentRepo) CancelOwned(ctx context.Context, id, userID int64) (*int64, bool, error) {
	if f.cancelOwnedFunc != nil {
		return f.cancelOwnedFunc(ctx, id, userID)
	}
	return nil, true, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	if f.statusUpdates == nil {
		f.statusUpdates = make(map[int64]domain.AppointmentStatus)
	}
	f.statusUpdates[id] = status
	return nil
}

func (f *fakeAppointmentRepo) ListFutureByUser(ctx context.Context, userID int64, now time.Time) ([]*domain.Appointment, error) {
	if f.listFutureByUserFunc != nil {
		return f.listFutureByUserFunc(ctx, userID, now)
	}
	return nil, nil
}

func (f *fakeAppointmentRepo) ListByMasterDay(ctx context.Context, masterID int64, from, to time.Time) ([]*domain.Appointment, error) {
	if f.listByMasterDayFunc != nil {
		return f.listByMasterDayFunc(ctx, masterID, from, to)
	}
	return nil, nil
}

type fakePaymentRepo struct {
	getByIDFunc     func(ctx context.Context, id int64) (*domain.Payment, error)
	cancelIfPending []int64
	cancelChanged   bool
}

func (f *fakePaymentRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Payment, error) {
	if f.getByIDFunc != nil {
		return f.getByIDFunc(ctx, id)
	}
	return nil, paymentRepo.ErrPaymentNotFound
}

func (f *fakePaymentRepo) CancelIfPending(ctx context.Context, id int64) (bool, error) {
	f.cancelIfPending = append(f.cancelIfPending, id)
	return f.cancelChanged, nil
}

type fakeCatalogRepo struct{}

func (fakeCatalogRepo) GetMaster(ctx context.Context, id int64) (*domain.Master, error) {
	return &domain.Master{ID: id, Name: "Анна"}, nil
}

func (fakeCatalogRepo) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	return &domain.Service{ID: id, Name: "Стрижка", DurationMinutes: 60}, nil
}

type fakeAuditRepo struct {
	entries []*domain.AuditEntry
}

func (f *fakeAuditRepo) Append(ctx context.Context, entry *domain.AuditEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newTestService(appointments *fakeAppointmentRepo, payments *fakePaymentRepo, audit *fakeAuditRepo) *Service {
	return NewService(appointments, payments, fakeCatalogRepo{}, audit, fakeTxManager{}, time.UTC, nopLogger{})
}

func TestCancel_PendingAppointmentCancelsPayment(t *testing.T) {
	paymentID := int64(7)
	appointments := &fakeAppointmentRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return &domain.Appointment{ID: id, UserID: 501, Status: domain.AppointmentPendingPayment, PaymentID: &paymentID}, nil
		},
		cancelOwnedFunc: func(ctx context.Context, id, userID int64) (*int64, bool, error) {
			return &paymentID, true, nil
		},
	}
	payments := &fakePaymentRepo{cancelChanged: true}
	audit := &fakeAuditRepo{}
	svc := newTestService(appointments, payments, audit)

	err := svc.Cancel(context.Background(), 100, 501)
	require.NoError(t, err)

	assert.Equal(t, []int64{7}, payments.cancelIfPending)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, "cancel_appointment", audit.entries[0].Action)
	assert.Equal(t, "Appointment", audit.entries[0].Entity)
}

func TestCancel_PaidAppointmentKeepsPayment(t *testing.T) {
	// CancelIfPending на оплаченном платеже ничего не меняет - платёж
	// остаётся paid, запись отменяется
	paymentID := int64(7)
	appointments := &fakeAppointmentRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return &domain.Appointment{ID: id, UserID: 501, Status: domain.AppointmentActive, PaymentID: &paymentID}, nil
		},
		cancelOwnedFunc: func(ctx context.Context, id, userID int64) (*int64, bool, error) {
			return &paymentID, true, nil
		},
	}
	payments := &fakePaymentRepo{cancelChanged: false}
	svc := newTestService(appointments, payments, &fakeAuditRepo{})

	err := svc.Cancel(context.Background(), 100, 501)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, payments.cancelIfPending)
}

func TestCancel_ForeignAppointmentLooksMissing(t *testing.T) {
	appointments := &fakeAppointmentRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return &domain.Appointment{ID: id, UserID: 999, Status: domain.AppointmentActive}, nil
		},
	}
	svc := newTestService(appointments, &fakePaymentRepo{}, &fakeAuditRepo{})

	err := svc.Cancel(context.Background(), 100, 501)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	appointments := &fakeAppointmentRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return &domain.Appointment{ID: id, UserID: 501, Status: domain.AppointmentCancelled}, nil
		},
	}
	svc := newTestService(appointments, &fakePaymentRepo{}, &fakeAuditRepo{})

	err := svc.Cancel(context.Background(), 100, 501)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancel_ConcurrentCancelRace(t *testing.T) {
	// Между проверкой и апдейтом запись уже отменили параллельно
	appointments := &fakeAppointmentRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return &domain.Appointment{ID: id, UserID: 501, Status: domain.AppointmentActive}, nil
		},
		cancelOwnedFunc: func(ctx context.Context, id, userID int64) (*int64, bool, error) {
			return nil, false, nil
		},
	}
	svc := newTestService(appointments, &fakePaymentRepo{}, &fakeAuditRepo{})

	err := svc.Cancel(context.Background(), 100, 501)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancel_NotFound(t *testing.T) {
	svc := newTestService(&fakeAppointmentRepo{}, &fakePaymentRepo{}, &fakeAuditRepo{})

	err := svc.Cancel(context.Background(), 100, 501)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancelPayment_CancelsPendingPaymentAndAppointment(t *testing.T) {
	paymentID := int64(7)
	appointments := &fakeAppointmentRepo{
		getByPaymentIDFunc: func(ctx context.Context, pid, userID int64) (*domain.Appointment, error) {
			return &domain.Appointment{ID: 100, UserID: userID, Status: domain.AppointmentPendingPayment, PaymentID: &paymentID}, nil
		},
	}
	payments := &fakePaymentRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*domain.Payment, error) {
			return &domain.Payment{ID: id, Status: domain.PaymentPending}, nil
		},
		cancelChanged: true,
	}
	audit := &fakeAuditRepo{}
	svc := newTestService(appointments, payments, audit)

	err := svc.CancelPayment(context.Background(), 7, 501)
	require.NoError(t, err)

	assert.Equal(t, []int64{7}, payments.cancelIfPending)
	assert.Equal(t, domain.AppointmentCancelled, appointments.statusUpdates[100])
	require.Len(t, audit.entries, 1)
	assert.Equal(t, "cancel_payment", audit.entries[0].Action)
}

func TestCancelPayment_PaidPaymentNotCancellable(t *testing.T) {
	paymentID := int64(7)
	appointments := &fakeAppointmentRepo{
		getByPaymentIDFunc: func(ctx context.Context, pid, userID int64) (*domain.Appointment, error) {
			return &domain.Appointment{ID: 100, UserID: userID, Status: domain.AppointmentActive, PaymentID: &paymentID}, nil
		},
	}
	payments := &fakePaymentRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*domain.Payment, error) {
			return &domain.Payment{ID: id, Status: domain.PaymentPaid}, nil
		},
	}
	svc := newTestService(appointments, payments, &fakeAuditRepo{})

	err := svc.CancelPayment(context.Background(), 7, 501)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Empty(t, payments.cancelIfPending)
}

func TestCancelPayment_AlreadyCancelled(t *testing.T) {
	paymentID := int64(7)
	appointments := &fakeAppointmentRepo{
		getByPaymentIDFunc: func(ctx context.Context, pid, userID int64) (*domain.Appointment, error) {
			return &domain.Appointment{ID: 100, UserID: userID, Status: domain.AppointmentCancelled, PaymentID: &paymentID}, nil
		},
	}
	payments := &fakePaymentRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*domain.Payment, error) {
			return &domain.Payment{ID: id, Status: domain.PaymentCancelled}, nil
		},
	}
	svc := newTestService(appointments, payments, &fakeAuditRepo{})

	err := svc.CancelPayment(context.Background(), 7, 501)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancelPayment_ForeignPaymentLooksMissing(t *testing.T) {
	payments := &fakePaymentRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*domain.Payment, error) {
			return &domain.Payment{ID: id, Status: domain.PaymentPending}, nil
		},
	}
	svc := newTestService(&fakeAppointmentRepo{}, payments, &fakeAuditRepo{})

	err := svc.CancelPayment(context.Background(), 7, 999)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestListUserAppointments_ResolvesNames(t *testing.T) {
	starts := time.Date(2025, 10, 15, 13, 0, 0, 0, time.UTC)
	appointments := &fakeAppointmentRepo{
		listFutureByUserFunc: func(ctx context.Context, userID int64, now time.Time) ([]*domain.Appointment, error) {
			return []*domain.Appointment{
				{ID: 1, UserID: userID, MasterID: 1, ServiceID: 2, StartsAt: starts, EndsAt: starts.Add(time.Hour), Status: domain.AppointmentActive},
			}, nil
		},
	}
	svc := newTestService(appointments, &fakePaymentRepo{}, &fakeAuditRepo{})

	resp, err := svc.ListUserAppointments(context.Background(), 501)
	require.NoError(t, err)

	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, "Анна", resp.Appointments[0].MasterName)
	assert.Equal(t, "Стрижка", resp.Appointments[0].ServiceName)
}

func TestListMasterDay_UsesLocalDayWindow(t *testing.T) {
	var gotFrom, gotTo time.Time
	appointments := &fakeAppointmentRepo{
		listByMasterDayFunc: func(ctx context.Context, masterID int64, from, to time.Time) ([]*domain.Appointment, error) {
			gotFrom, gotTo = from, to
			return nil, nil
		},
	}
	svc := newTestService(appointments, &fakePaymentRepo{}, &fakeAuditRepo{})

	date := time.Date(2025, 10, 15, 9, 30, 0, 0, time.UTC)
	resp, err := svc.ListMasterDay(context.Background(), 1, date)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), gotFrom)
	assert.Equal(t, time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC), gotTo)
	assert.Empty(t, resp.Appointments)
}
