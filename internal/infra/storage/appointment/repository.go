package appointment

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
)

// Код ошибок PostgreSQL, в которые транслируется нарушение инварианта
// непересечения: exclusion_violation для EXCLUDE-констрейнта и
// unique_violation для уникальной обратной ссылки на платёж.
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

const appointmentColumns = "id, user_id, master_id, service_id, starts_at, ends_at, status, payment_id, reminded_24h, reminded_1h, created_at"

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись. Должен вызываться внутри транзакции, когда
// запись создаётся вместе с платежом: при нарушении exclusion constraint
// откатывается вся транзакция, включая платёж.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"user_id",
			"master_id",
			"service_id",
			"starts_at",
			"ends_at",
			"status",
			"payment_id",
			"reminded_24h",
			"reminded_1h",
		).
		Values(
			appt.UserID,
			appt.MasterID,
			appt.ServiceID,
			appt.StartsAt,
			appt.EndsAt,
			appt.Status,
			appt.PaymentID,
			appt.Reminded24h,
			appt.Reminded1h,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&appt.ID, &appt.CreatedAt)
	if err != nil {
		if isIntegrityViolation(err) {
			return nil, ErrSlotOverlap
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return appt, nil
}

// GetBusyIntervals возвращает интервалы записей мастера в статусах
// active/pending_payment, пересекающие [from, to)
func (r *Repository) GetBusyIntervals(ctx context.Context, masterID int64, from, to time.Time) ([]domain.TimeInterval, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("starts_at", "ends_at").
		From("appointments").
		Where(squirrel.Eq{"master_id": masterID}).
		Where(squirrel.Eq{"status": busyStatusStrings()}).
		Where(squirrel.Lt{"starts_at": to}).
		Where(squirrel.Gt{"ends_at": from}).
		OrderBy("starts_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusyIntervals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusyIntervals - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	intervals := make([]domain.TimeInterval, 0)
	for rows.Next() {
		var iv domain.TimeInterval
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return nil, fmt.Errorf("%w: GetBusyIntervals - scan row: %v", ErrScanRow, err)
		}
		intervals = append(intervals, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBusyIntervals - rows error: %v", ErrScanRow, err)
	}

	return intervals, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "user_id", "master_id", "service_id",
		"starts_at", "ends_at", "status", "payment_id",
		"reminded_24h", "reminded_1h", "created_at",
	).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// GetByPaymentIDForUpdate получает запись по платежу и владельцу с блокировкой
// строки (FOR UPDATE). Вызывается только внутри транзакции.
func (r *Repository) GetByPaymentIDForUpdate(ctx context.Context, paymentID, userID int64) (*domain.Appointment, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "user_id", "master_id", "service_id",
		"starts_at", "ends_at", "status", "payment_id",
		"reminded_24h", "reminded_1h", "created_at",
	).
		From("appointments").
		Where(squirrel.Eq{"payment_id": paymentID, "user_id": userID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPaymentIDForUpdate - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "GetByPaymentIDForUpdate")
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// CancelOwned переводит запись владельца в cancelled, если она ещё держит слот.
// Возвращает payment_id отменённой записи и признак, что строка была изменена.
func (r *Repository) CancelOwned(ctx context.Context, id, userID int64) (*int64, bool, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.AppointmentCancelled).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		Where(squirrel.Eq{"status": busyStatusStrings()}).
		Suffix("RETURNING payment_id").
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("%w: CancelOwned - build update query: %v", ErrBuildQuery, err)
	}

	var paymentID sql.NullInt64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&paymentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: CancelOwned - execute update: %v", ErrExecQuery, err)
	}

	if paymentID.Valid {
		return &paymentID.Int64, true, nil
	}
	return nil, true, nil
}

// ListFutureByUser возвращает будущие записи пользователя, держащие слот,
// по возрастанию времени начала
func (r *Repository) ListFutureByUser(ctx context.Context, userID int64, now time.Time) ([]*domain.Appointment, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "user_id", "master_id", "service_id",
		"starts_at", "ends_at", "status", "payment_id",
		"reminded_24h", "reminded_1h", "created_at",
	).
		From("appointments").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"status": busyStatusStrings()}).
		Where(squirrel.Gt{"starts_at": now}).
		OrderBy("starts_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListFutureByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListFutureByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// ListByMasterDay возвращает активные записи мастера, начинающиеся в [from, to),
// по возрастанию времени начала
func (r *Repository) ListByMasterDay(ctx context.Context, masterID int64, from, to time.Time) ([]*domain.Appointment, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "user_id", "master_id", "service_id",
		"starts_at", "ends_at", "status", "payment_id",
		"reminded_24h", "reminded_1h", "created_at",
	).
		From("appointments").
		Where(squirrel.Eq{"master_id": masterID, "status": domain.AppointmentActive}).
		Where(squirrel.GtOrEq{"starts_at": from}).
		Where(squirrel.Lt{"starts_at": to}).
		OrderBy("starts_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByMasterDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByMasterDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// ListDueReminders возвращает активные записи без флага напоминания kind,
// начинающиеся в [from, to), вместе с именами мастера и услуги
func (r *Repository) ListDueReminders(ctx context.Context, kind domain.ReminderKind, from, to time.Time) ([]*domain.UpcomingAppointment, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	flag, err := reminderColumn(kind)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Select(
		"a.id", "a.user_id", "a.starts_at", "m.name", "s.name",
	).
		From("appointments a").
		Join("masters m ON m.id = a.master_id").
		Join("services s ON s.id = a.service_id").
		Where(squirrel.Eq{"a.status": domain.AppointmentActive}).
		Where(squirrel.Eq{flag: false}).
		Where(squirrel.GtOrEq{"a.starts_at": from}).
		Where(squirrel.Lt{"a.starts_at": to}).
		OrderBy("a.starts_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDueReminders - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDueReminders - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	out := make([]*domain.UpcomingAppointment, 0)
	for rows.Next() {
		var u domain.UpcomingAppointment
		if err := rows.Scan(&u.ID, &u.UserID, &u.StartsAt, &u.MasterName, &u.ServiceName); err != nil {
			return nil, fmt.Errorf("%w: ListDueReminders - scan row: %v", ErrScanRow, err)
		}
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListDueReminders - rows error: %v", ErrScanRow, err)
	}

	return out, nil
}

// MarkReminded выставляет флаг напоминания. Флаг - единственная гарантия
// идемпотентности напоминаний, выставляется только после успешной отправки.
func (r *Repository) MarkReminded(ctx context.Context, id int64, kind domain.ReminderKind) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	flag, err := reminderColumn(kind)
	if err != nil {
		return err
	}

	query, args, err := psqlbuilder.Update("appointments").
		Set(flag, true).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkReminded - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkReminded - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkReminded - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

func reminderColumn(kind domain.ReminderKind) (string, error) {
	switch kind {
	case domain.Reminder24h:
		return "reminded_24h", nil
	case domain.Reminder1h:
		return "reminded_1h", nil
	default:
		return "", fmt.Errorf("%w: unknown reminder kind %q", ErrBuildQuery, kind)
	}
}

func (r *Repository) scanOne(row *sql.Row, op string) (*domain.Appointment, error) {
	var appt domain.Appointment
	var paymentID sql.NullInt64

	err := row.Scan(
		&appt.ID,
		&appt.UserID,
		&appt.MasterID,
		&appt.ServiceID,
		&appt.StartsAt,
		&appt.EndsAt,
		&appt.Status,
		&paymentID,
		&appt.Reminded24h,
		&appt.Reminded1h,
		&appt.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, op, err)
	}

	if paymentID.Valid {
		appt.PaymentID = &paymentID.Int64
	}
	return &appt, nil
}

func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		var appt domain.Appointment
		var paymentID sql.NullInt64

		err := rows.Scan(
			&appt.ID,
			&appt.UserID,
			&appt.MasterID,
			&appt.ServiceID,
			&appt.StartsAt,
			&appt.EndsAt,
			&appt.Status,
			&paymentID,
			&appt.Reminded24h,
			&appt.Reminded1h,
			&appt.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}

		if paymentID.Valid {
			appt.PaymentID = &paymentID.Int64
		}
		appointments = append(appointments, &appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

func isIntegrityViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgExclusionViolation || pqErr.Code == pgUniqueViolation
	}
	return false
}

func busyStatusStrings() []string {
	out := make([]string, len(domain.BusyStatuses))
	for i, s := range domain.BusyStatuses {
		out[i] = string(s)
	}
	return out
}
