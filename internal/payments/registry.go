package payments

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Registry реестр платежных провайдеров по имени
type Registry struct {
	providers map[domain.PaymentProviderName]Provider
}

// NewRegistry создает реестр провайдеров
func NewRegistry() *Registry {
	return &Registry{providers: make(map[domain.PaymentProviderName]Provider)}
}

// Register регистрирует провайдера под именем. Повторная регистрация
// перезаписывает предыдущего.
func (r *Registry) Register(name domain.PaymentProviderName, p Provider) {
	r.providers[name] = p
}

// Get возвращает провайдера по имени
func (r *Registry) Get(name domain.PaymentProviderName) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}
