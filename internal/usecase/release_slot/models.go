package release_slot

import "time"

// Request модель запроса на освобождение слота.
// Слот указывается одним способом: SlotID, Start+End или меткой Label на дату Date.
type Request struct {
	StationID   string
	PointNumber int
	SlotID      string
	Start       *time.Time
	End         *time.Time
	Label       string
	Date        *time.Time
	UserID      string // кто освобождает, пишется в аудит
}

// Response запись об освобождении
type Response struct {
	StationID   string
	PointNumber int
	SlotID      string
	Start       time.Time
	End         time.Time
	BookedBy    *string
	ReleasedBy  string
	ReleasedAt  time.Time
	Policy      string
}
