package payments

import (
	"context"

	"github.com/google/uuid"
)

// DummyProvider тестовый провайдер: интент создается локально, оплата
// подтверждается вручную через API. Реальных списаний нет.
//
// PayURL интент не несет - синтетическая ссылка строится по ID платежа
// в нашей БД уже после вставки.
type DummyProvider struct{}

// NewDummyProvider создает тестового провайдера
func NewDummyProvider() *DummyProvider {
	return &DummyProvider{}
}

// CreateIntent генерирует внешний ID. Ходить никуда не нужно.
func (p *DummyProvider) CreateIntent(ctx context.Context, amountCents int64, currency string, description string) (*Intent, error) {
	return &Intent{ExternalID: uuid.NewString()}, nil
}
