package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/user"
)

type fakeUserRepo struct {
	setPhoneErr error
	phones      map[int64]string
}

func (f *fakeUserRepo) SetPhone(ctx context.Context, id int64, phone string) error {
	if f.setPhoneErr != nil {
		return f.setPhoneErr
	}
	if f.phones == nil {
		f.phones = make(map[int64]string)
	}
	f.phones[id] = phone
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestUpdatePhone_NormalizesBeforeSave(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewService(repo, nopLogger{})

	normalized, err := svc.UpdatePhone(context.Background(), 501, "+7 (999) 123-45-67")
	require.NoError(t, err)

	assert.Equal(t, "+79991234567", normalized)
	assert.Equal(t, "+79991234567", repo.phones[501])
}

func TestUpdatePhone_KeepsPlainDigits(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewService(repo, nopLogger{})

	normalized, err := svc.UpdatePhone(context.Background(), 501, "89991234567")
	require.NoError(t, err)
	assert.Equal(t, "89991234567", normalized)
}

func TestUpdatePhone_Validation(t *testing.T) {
	svc := NewService(&fakeUserRepo{}, nopLogger{})

	tests := []struct {
		name   string
		userID int64
		phone  string
	}{
		{"bad user id", 0, "+79991234567"},
		{"letters in phone", 501, "phone"},
		{"plus not leading", 501, "79+991234567"},
		{"too short", 501, "12345"},
		{"too long", 501, "+1234567890123456"},
		{"empty", 501, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdatePhone(context.Background(), tt.userID, tt.phone)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpdatePhone_UserNotFound(t *testing.T) {
	repo := &fakeUserRepo{setPhoneErr: userRepo.ErrUserNotFound}
	svc := NewService(repo, nopLogger{})

	_, err := svc.UpdatePhone(context.Background(), 501, "+79991234567")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
