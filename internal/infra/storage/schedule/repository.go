package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const pgUniqueViolation = "23505"

// Repository репозиторий расписания мастеров: рабочие часы, перерывы, выходные
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// UpsertWorkingHours заменяет рабочие часы мастера на день недели.
// На (master_id, weekday) есть уникальный констрейнт - upsert через ON CONFLICT.
func (r *Repository) UpsertWorkingHours(ctx context.Context, masterID int64, weekday int, start, end types.TimeString) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("master_working_hours").
		Columns("master_id", "weekday", "start_time", "end_time").
		Values(masterID, weekday, start, end).
		Suffix("ON CONFLICT (master_id, weekday) DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertWorkingHours - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertWorkingHours - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetWorkingHours возвращает рабочие часы мастера на день недели
func (r *Repository) GetWorkingHours(ctx context.Context, masterID int64, weekday int) (*domain.WorkingHours, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "master_id", "weekday", "start_time", "end_time").
		From("master_working_hours").
		Where(squirrel.Eq{"master_id": masterID, "weekday": weekday}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - build select query: %v", ErrBuildQuery, err)
	}

	var wh domain.WorkingHours
	err = executor.QueryRowContext(ctx, query, args...).Scan(&wh.ID, &wh.MasterID, &wh.Weekday, &wh.StartTime, &wh.EndTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkingHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - scan row: %v", ErrScanRow, err)
	}

	return &wh, nil
}

// AddBreak добавляет перерыв мастеру на день недели.
// Перерывов на день может быть несколько, пересечения не схлопываются.
func (r *Repository) AddBreak(ctx context.Context, masterID int64, weekday int, start, end types.TimeString) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("master_breaks").
		Columns("master_id", "weekday", "start_time", "end_time").
		Values(masterID, weekday, start, end).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddBreak - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AddBreak - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListBreaks возвращает перерывы мастера на день недели по возрастанию начала
func (r *Repository) ListBreaks(ctx context.Context, masterID int64, weekday int) ([]*domain.Break, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "master_id", "weekday", "start_time", "end_time").
		From("master_breaks").
		Where(squirrel.Eq{"master_id": masterID, "weekday": weekday}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBreaks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBreaks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	breaks := make([]*domain.Break, 0)
	for rows.Next() {
		var b domain.Break
		if err := rows.Scan(&b.ID, &b.MasterID, &b.Weekday, &b.StartTime, &b.EndTime); err != nil {
			return nil, fmt.Errorf("%w: ListBreaks - scan row: %v", ErrScanRow, err)
		}
		breaks = append(breaks, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBreaks - rows error: %v", ErrScanRow, err)
	}

	return breaks, nil
}

// AddDayOff добавляет выходной мастера на дату
func (r *Repository) AddDayOff(ctx context.Context, masterID int64, date time.Time, reason *string) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("master_days_off").
		Columns("master_id", "date", "reason").
		Values(masterID, date.Format(domain.DateFormat), reason).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddDayOff - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return ErrDayOffExists
		}
		return fmt.Errorf("%w: AddDayOff - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// HasDayOff возвращает true, если на дату есть выходной
func (r *Repository) HasDayOff(ctx context.Context, masterID int64, date time.Time) (bool, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("master_days_off").
		Where(squirrel.Eq{"master_id": masterID, "date": date.Format(domain.DateFormat)}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasDayOff - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasDayOff - scan row: %v", ErrScanRow, err)
	}

	return true, nil
}
