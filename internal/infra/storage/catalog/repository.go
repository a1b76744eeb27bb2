package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

const pgUniqueViolation = "23505"

// Repository репозиторий каталога: мастера и услуги
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateMaster создает мастера. Имя уникально.
func (r *Repository) CreateMaster(ctx context.Context, m *domain.Master) (*domain.Master, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("masters").
		Columns("name", "description", "tg_user_id").
		Values(m.Name, m.Description, m.TgUserID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateMaster - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&m.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("%w: CreateMaster - execute insert: %v", ErrExecQuery, err)
	}

	return m, nil
}

// GetMaster получает мастера по ID
func (r *Repository) GetMaster(ctx context.Context, id int64) (*domain.Master, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "description", "tg_user_id").
		From("masters").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetMaster - build select query: %v", ErrBuildQuery, err)
	}

	var m domain.Master
	var description sql.NullString
	var tgUserID sql.NullInt64

	err = executor.QueryRowContext(ctx, query, args...).Scan(&m.ID, &m.Name, &description, &tgUserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMasterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetMaster - scan row: %v", ErrScanRow, err)
	}

	if description.Valid {
		m.Description = &description.String
	}
	if tgUserID.Valid {
		m.TgUserID = &tgUserID.Int64
	}

	return &m, nil
}

// ListMasters возвращает всех мастеров по алфавиту
func (r *Repository) ListMasters(ctx context.Context) ([]*domain.Master, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "description", "tg_user_id").
		From("masters").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListMasters - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListMasters - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	masters := make([]*domain.Master, 0)
	for rows.Next() {
		var m domain.Master
		var description sql.NullString
		var tgUserID sql.NullInt64

		if err := rows.Scan(&m.ID, &m.Name, &description, &tgUserID); err != nil {
			return nil, fmt.Errorf("%w: ListMasters - scan row: %v", ErrScanRow, err)
		}
		if description.Valid {
			m.Description = &description.String
		}
		if tgUserID.Valid {
			m.TgUserID = &tgUserID.Int64
		}
		masters = append(masters, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListMasters - rows error: %v", ErrScanRow, err)
	}

	return masters, nil
}

// CreateService создает услугу. Имя уникально.
func (r *Repository) CreateService(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("services").
		Columns("name", "description", "duration_minutes", "price_cents").
		Values(s.Name, s.Description, s.DurationMinutes, s.PriceCents).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateService - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("%w: CreateService - execute insert: %v", ErrExecQuery, err)
	}

	return s, nil
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "description", "duration_minutes", "price_cents").
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Service
	var description sql.NullString

	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.Name, &description, &s.DurationMinutes, &s.PriceCents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan row: %v", ErrScanRow, err)
	}

	if description.Valid {
		s.Description = &description.String
	}

	return &s, nil
}

// ListServices возвращает все услуги по алфавиту
func (r *Repository) ListServices(ctx context.Context) ([]*domain.Service, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "description", "duration_minutes", "price_cents").
		From("services").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		var s domain.Service
		var description sql.NullString

		if err := rows.Scan(&s.ID, &s.Name, &description, &s.DurationMinutes, &s.PriceCents); err != nil {
			return nil, fmt.Errorf("%w: ListServices - scan row: %v", ErrScanRow, err)
		}
		if description.Valid {
			s.Description = &description.String
		}
		services = append(services, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServices - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}
