package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
)

// Service сервис каталога: мастера и услуги
type Service struct {
	catalogRepo CatalogRepository
	userRepo    UserRepository
	auditRepo   AuditRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	catalogRepo CatalogRepository,
	userRepo UserRepository,
	auditRepo AuditRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		catalogRepo: catalogRepo,
		userRepo:    userRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateMaster создает мастера. Если мастер привязан к пользователю бота,
// пользователю назначается роль master.
func (s *Service) CreateMaster(ctx context.Context, req *models.CreateMasterRequest) (*models.MasterResponse, error) {
	s.logger.Info("CreateMaster: name=%q by user=%d", req.Name, req.ActorID)

	if err := validateName(req.Name); err != nil {
		s.logger.Warn("CreateMaster: validation failed: %v", err)
		return nil, err
	}

	master := &domain.Master{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		TgUserID:    req.TgUserID,
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		created, err := s.catalogRepo.CreateMaster(txCtx, master)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrNameTaken) {
				s.logger.Warn("CreateMaster: name %q already taken", master.Name)
				return ErrNameTaken
			}
			s.logger.Error("CreateMaster: repository error: %v", err)
			return fmt.Errorf("%w: CreateMaster - repository error: %v", ErrInternal, err)
		}
		master = created

		if master.TgUserID != nil {
			if err := s.userRepo.SetRole(txCtx, *master.TgUserID, domain.RoleMaster); err != nil {
				s.logger.Error("CreateMaster: failed to set master role for user=%d: %v", *master.TgUserID, err)
				return fmt.Errorf("%w: CreateMaster - failed to set role: %v", ErrInternal, err)
			}
		}

		return s.audit(txCtx, req.ActorID, "add_master", "Master", master.ID, map[string]interface{}{
			"name": master.Name,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("CreateMaster: created master id=%d", master.ID)
	resp := models.FromDomainMaster(master)
	return &resp, nil
}

// CreateService создает услугу
func (s *Service) CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("CreateService: name=%q, duration=%d, price=%d by user=%d",
		req.Name, req.DurationMinutes, req.PriceCents, req.ActorID)

	if err := validateName(req.Name); err != nil {
		s.logger.Warn("CreateService: validation failed: %v", err)
		return nil, err
	}
	if req.DurationMinutes < domain.MinServiceDurationMinutes || req.DurationMinutes > domain.MaxServiceDurationMinutes {
		return nil, fmt.Errorf("%w: durationMinutes must be %d..%d",
			ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}
	if req.PriceCents < 0 {
		return nil, fmt.Errorf("%w: priceCents must not be negative", ErrInvalidInput)
	}

	service := &domain.Service{
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		created, err := s.catalogRepo.CreateService(txCtx, service)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrNameTaken) {
				s.logger.Warn("CreateService: name %q already taken", service.Name)
				return ErrNameTaken
			}
			s.logger.Error("CreateService: repository error: %v", err)
			return fmt.Errorf("%w: CreateService - repository error: %v", ErrInternal, err)
		}
		service = created

		return s.audit(txCtx, req.ActorID, "add_service", "Service", service.ID, map[string]interface{}{
			"name":             service.Name,
			"duration_minutes": service.DurationMinutes,
			"price_cents":      service.PriceCents,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("CreateService: created service id=%d", service.ID)
	resp := models.FromDomainService(service)
	return &resp, nil
}

// ListMasters возвращает всех мастеров
func (s *Service) ListMasters(ctx context.Context) (*models.MasterListResponse, error) {
	masters, err := s.catalogRepo.ListMasters(ctx)
	if err != nil {
		s.logger.Error("ListMasters: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListMasters - repository error: %v", ErrInternal, err)
	}

	out := make([]models.MasterResponse, 0, len(masters))
	for _, m := range masters {
		out = append(out, models.FromDomainMaster(m))
	}
	return &models.MasterListResponse{Masters: out}, nil
}

// ListServices возвращает все услуги
func (s *Service) ListServices(ctx context.Context) (*models.ServiceListResponse, error) {
	services, err := s.catalogRepo.ListServices(ctx)
	if err != nil {
		s.logger.Error("ListServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}

	out := make([]models.ServiceResponse, 0, len(services))
	for _, svc := range services {
		out = append(out, models.FromDomainService(svc))
	}
	return &models.ServiceListResponse{Services: out}, nil
}

func (s *Service) audit(ctx context.Context, actorID int64, action, entity string, entityID int64, meta map[string]interface{}) error {
	entry := &domain.AuditEntry{
		ActorUserID: &actorID,
		Action:      action,
		Entity:      entity,
		EntityID:    &entityID,
		Meta:        meta,
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		s.logger.Error("failed to append audit entry: %v", err)
		return fmt.Errorf("%w: failed to append audit entry: %v", ErrInternal, err)
	}
	return nil
}

func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(trimmed) > domain.MaxNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, domain.MaxNameLength)
	}
	return nil
}
