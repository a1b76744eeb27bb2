package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	userRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/user"
)

// Телефон храним нормализованным: только цифры и необязательный ведущий плюс
const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

// Service сервис пользовательского профиля
type Service struct {
	userRepo UserRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса пользователей
func NewService(userRepo UserRepository, logger Logger) *Service {
	return &Service{
		userRepo: userRepo,
		logger:   logger,
	}
}

// UpdatePhone сохраняет номер телефона пользователя.
// Возвращает номер в нормализованном виде, как он записан в базу.
func (s *Service) UpdatePhone(ctx context.Context, userID int64, phone string) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("%w: user id must be positive", ErrInvalidInput)
	}

	normalized, err := normalizePhone(phone)
	if err != nil {
		s.logger.Warn("UpdatePhone: invalid phone for user id=%d: %v", userID, err)
		return "", err
	}

	if err := s.userRepo.SetPhone(ctx, userID, normalized); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("UpdatePhone: user id=%d not found", userID)
			return "", ErrUserNotFound
		}
		s.logger.Error("UpdatePhone: failed to set phone for user id=%d: %v", userID, err)
		return "", fmt.Errorf("%w: failed to set phone: %v", ErrInternal, err)
	}

	s.logger.Info("UpdatePhone: phone updated for user id=%d", userID)

	return normalized, nil
}

// normalizePhone отбрасывает разделители и проверяет, что остались только
// цифры с необязательным плюсом в начале
func normalizePhone(raw string) (string, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')':
			// разделители допустимы, в базу не попадают
		default:
			return "", fmt.Errorf("%w: phone contains invalid characters", ErrInvalidInput)
		}
	}

	digits := strings.TrimPrefix(b.String(), "+")
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return "", fmt.Errorf("%w: phone must contain %d-%d digits", ErrInvalidInput, minPhoneDigits, maxPhoneDigits)
	}

	return b.String(), nil
}
