package get_availability

import "time"

// Request модель запроса слотов точки
type Request struct {
	StationID   string
	PointNumber int
	AsOf        *time.Time // по умолчанию текущее время
}

// Slot слот в ответе
type Slot struct {
	ID       string
	Start    time.Time
	End      time.Time
	Label    string
	Booked   bool
	BookedBy *string
}

// Response слоты точки, которые еще не закончились, по возрастанию начала
type Response struct {
	StationID     string
	PointNumber   int
	ConnectorType string
	AsOf          time.Time
	Slots         []Slot
}
