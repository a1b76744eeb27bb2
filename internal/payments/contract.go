package payments

import (
	"context"
)

// Intent результат создания платежа у провайдера
type Intent struct {
	ExternalID string
	PayURL     string
}

// Provider интерфейс платежного провайдера. Создание интента не трогает
// нашу БД - запись платежа и привязка URL живут в хранилище.
type Provider interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, description string) (*Intent, error)
}
