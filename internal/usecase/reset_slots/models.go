package reset_slots

import "time"

// Request параметры запуска
type Request struct {
	Day *time.Time // сутки, на которые строится сетка; по умолчанию текущие
}

// Report итог запуска
type Report struct {
	Day             time.Time
	Total           int // станций в списке
	Reset           int // сброшено успешно
	Failed          int // ошибки хранилища или таймауты
	Skipped         int // удалены до сброса или запуск прерван
	DroppedBookings int
	Duration        time.Duration
}
