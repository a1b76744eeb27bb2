package create_appointment

import (
	"time"
)

// Request модель запроса на создание записи
type Request struct {
	UserID    int64     // ID пользователя (Telegram ID)
	Username  *string   // username пользователя (опционально)
	MasterID  int64     // ID мастера
	ServiceID int64     // ID услуги
	StartsAt  time.Time // Время начала слота
}

// Response модель ответа с созданной записью
type Response struct {
	ID       int64     // ID созданной записи
	UserID   int64     // ID пользователя
	MasterID int64     // ID мастера
	StartsAt time.Time // Время начала
	EndsAt   time.Time // Время окончания (начало + длительность услуги)
	Status   string    // Статус записи

	// Денормализованные данные
	ServiceName  string // Название услуги
	ServicePrice int64  // Цена услуги в копейках

	// Платёж (nil, когда запись создана без оплаты)
	PaymentID *int64
	PayURL    *string

	CreatedAt time.Time // Время создания
}
