package book_slot

import "time"

// Request модель запроса на бронирование.
// Интервал задается либо Start+End, либо меткой сетки Label ("09:00-09:30") на дату Date.
type Request struct {
	StationID   string
	PointNumber int
	Start       *time.Time
	End         *time.Time
	Label       string
	Date        *time.Time // по умолчанию текущая дата
	UserID      string
}

// Response модель ответа с забронированным слотом
type Response struct {
	SlotID      string
	StationID   string
	PointNumber int
	Start       time.Time
	End         time.Time
	Label       string
	UserID      string
}
