package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type fakeCatalogRepo struct {
	createMasterErr  error
	createServiceErr error
	masters          []*domain.Master
	services         []*domain.Service
}

func (f *fakeCatalogRepo) CreateMaster(ctx context.Context, m *domain.Master) (*domain.Master, error) {
	if f.createMasterErr != nil {
		return nil, f.createMasterErr
	}
	m.ID = int64(len(f.masters)) + 1
	f.masters = append(f.masters, m)
	return m, nil
}

func (f *fakeCatalogRepo) CreateService(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	if f.createServiceErr != nil {
		return nil, f.createServiceErr
	}
	s.ID = int64(len(f.services)) + 1
	f.services = append(f.services, s)
	return s, nil
}

func (f *fakeCatalogRepo) ListMasters(ctx context.Context) ([]*domain.Master, error) {
	return f.masters, nil
}

func (f *fakeCatalogRepo) ListServices(ctx context.Context) ([]*domain.Service, error) {
	return f.services, nil
}

type fakeUserRepo struct {
	roles map[int64]domain.UserRole
}

func (f *fakeUserRepo) SetRole(ctx context.Context, id int64, role domain.UserRole) error {
	if f.roles == nil {
		f.roles = make(map[int64]domain.UserRole)
	}
	f.roles[id] = role
	return nil
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

func newTestService(catalog *fakeCatalogRepo, users *fakeUserRepo, audit *fakeAuditRepo) *Service {
	return NewService(catalog, users, audit, fakeTxManager{}, nopLogger{})
}

func TestCreateMaster_Success(t *testing.T) {
	catalog := &fakeCatalogRepo{}
	users := &fakeUserRepo{}
	audit := &fakeAuditRepo{}
	svc := newTestService(catalog, users, audit)

	resp, err := svc.CreateMaster(context.Background(), &models.CreateMasterRequest{
		ActorID: 900,
		Name:    "  Анна  ",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "Анна", resp.Name)
	assert.Empty(t, users.roles)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, "add_master", audit.entries[0].Action)
}

func TestCreateMaster_LinkedUserGetsMasterRole(t *testing.T) {
	users := &fakeUserRepo{}
	svc := newTestService(&fakeCatalogRepo{}, users, &fakeAuditRepo{})

	_, err := svc.CreateMaster(context.Background(), &models.CreateMasterRequest{
		ActorID:  900,
		Name:     "Анна",
		TgUserID: ptr.Ptr(int64(777)),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleMaster, users.roles[777])
}

func TestCreateMaster_NameTaken(t *testing.T) {
	catalog := &fakeCatalogRepo{createMasterErr: catalogRepo.ErrNameTaken}
	svc := newTestService(catalog, &fakeUserRepo{}, &fakeAuditRepo{})

	_, err := svc.CreateMaster(context.Background(), &models.CreateMasterRequest{ActorID: 900, Name: "Анна"})
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestCreateMaster_NameValidation(t *testing.T) {
	svc := newTestService(&fakeCatalogRepo{}, &fakeUserRepo{}, &fakeAuditRepo{})

	_, err := svc.CreateMaster(context.Background(), &models.CreateMasterRequest{ActorID: 900, Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateMaster(context.Background(), &models.CreateMasterRequest{
		ActorID: 900,
		Name:    strings.Repeat("a", domain.MaxNameLength+1),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateService_Success(t *testing.T) {
	audit := &fakeAuditRepo{}
	svc := newTestService(&fakeCatalogRepo{}, &fakeUserRepo{}, audit)

	resp, err := svc.CreateService(context.Background(), &models.CreateServiceRequest{
		ActorID:         900,
		Name:            "Стрижка",
		DurationMinutes: 60,
		PriceCents:      150000,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, 60, resp.DurationMinutes)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, "add_service", audit.entries[0].Action)
}

func TestCreateService_Validation(t *testing.T) {
	svc := newTestService(&fakeCatalogRepo{}, &fakeUserRepo{}, &fakeAuditRepo{})

	_, err := svc.CreateService(context.Background(), &models.CreateServiceRequest{
		ActorID: 900, Name: "Стрижка", DurationMinutes: 0, PriceCents: 100,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateService(context.Background(), &models.CreateServiceRequest{
		ActorID: 900, Name: "Стрижка", DurationMinutes: domain.MaxServiceDurationMinutes + 1, PriceCents: 100,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateService(context.Background(), &models.CreateServiceRequest{
		ActorID: 900, Name: "Стрижка", DurationMinutes: 60, PriceCents: -1,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListCatalog(t *testing.T) {
	catalog := &fakeCatalogRepo{
		masters:  []*domain.Master{{ID: 1, Name: "Анна"}},
		services: []*domain.Service{{ID: 1, Name: "Стрижка", DurationMinutes: 60}},
	}
	svc := newTestService(catalog, &fakeUserRepo{}, &fakeAuditRepo{})

	masters, err := svc.ListMasters(context.Background())
	require.NoError(t, err)
	require.Len(t, masters.Masters, 1)

	services, err := svc.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services.Services, 1)
}
