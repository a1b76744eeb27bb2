package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// Repository репозиторий для работы с платежами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает платёж в статусе pending
func (r *Repository) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns("provider", "status", "amount_cents", "currency", "external_id", "pay_url").
		Values(p.Provider, p.Status, p.AmountCents, p.Currency, p.ExternalID, p.PayURL).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return p, nil
}

// SetPayURL выставляет pay_url платежа (синтетическая ссылка dummy-провайдера,
// когда провайдер не вернул hosted URL)
func (r *Repository) SetPayURL(ctx context.Context, id int64, payURL string) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payments").
		Set("pay_url", payURL).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetPayURL - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetPayURL - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetPayURL - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

// GetByIDForUpdate получает платёж с блокировкой строки (FOR UPDATE).
// Вызывается только внутри транзакции.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Payment, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "provider", "status", "amount_cents", "currency",
		"external_id", "pay_url", "created_at", "paid_at",
	).
		From("payments").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDForUpdate - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.Payment
	var externalID, payURL sql.NullString
	var paidAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.Provider,
		&p.Status,
		&p.AmountCents,
		&p.Currency,
		&externalID,
		&payURL,
		&p.CreatedAt,
		&paidAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDForUpdate - scan payment: %v", ErrScanRow, err)
	}

	if externalID.Valid {
		p.ExternalID = &externalID.String
	}
	if payURL.Valid {
		p.PayURL = &payURL.String
	}
	if paidAt.Valid {
		p.PaidAt = &paidAt.Time
	}

	return &p, nil
}

// MarkPaid переводит платёж в paid с отметкой времени оплаты
func (r *Repository) MarkPaid(ctx context.Context, id int64, paidAt time.Time) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payments").
		Set("status", domain.PaymentPaid).
		Set("paid_at", paidAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

// CancelIfPending переводит платёж pending -> cancelled.
// Возвращает true, если строка была изменена.
func (r *Repository) CancelIfPending(ctx context.Context, id int64) (bool, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payments").
		Set("status", domain.PaymentCancelled).
		Where(squirrel.Eq{"id": id, "status": domain.PaymentPending}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: CancelIfPending - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: CancelIfPending - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: CancelIfPending - get rows affected: %v", ErrExecQuery, err)
	}

	return affected > 0, nil
}
