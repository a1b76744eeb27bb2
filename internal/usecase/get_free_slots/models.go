package get_free_slots

import (
	"time"
)

// Request модель запроса свободных слотов
type Request struct {
	MasterID  int64     // ID мастера
	ServiceID int64     // ID услуги (определяет длительность слота)
	Date      time.Time // Дата (без времени)
}

// Slot свободный слот [StartsAt, EndsAt)
type Slot struct {
	StartsAt time.Time
	EndsAt   time.Time
}

// Response модель ответа со свободными слотами
type Response struct {
	MasterID  int64
	ServiceID int64
	Date      time.Time
	Slots     []Slot // по возрастанию времени начала; пусто - свободных слотов нет
}
