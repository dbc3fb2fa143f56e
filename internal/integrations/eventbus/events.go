package eventbus

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType тип события, используется как routing key
type EventType string

const (
	EventSlotBooked    EventType = "slot.booked"
	EventSlotReleased  EventType = "slot.released"
	EventStationsReset EventType = "stations.reset"
)

// Envelope конверт события в очереди
type Envelope struct {
	Type       EventType       `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// SlotBooked слот забронирован
type SlotBooked struct {
	StationID   string    `json:"station_id"`
	PointNumber int       `json:"point_number"`
	SlotID      string    `json:"slot_id"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	UserID      string    `json:"user_id"`
}

// SlotReleased бронь снята
type SlotReleased struct {
	StationID   string    `json:"station_id"`
	PointNumber int       `json:"point_number"`
	SlotID      string    `json:"slot_id"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	BookedBy    *string   `json:"booked_by,omitempty"`
	ReleasedBy  string    `json:"released_by"`
	Policy      string    `json:"policy"`
}

// StationsReset итог ежедневного сброса
type StationsReset struct {
	Day     string `json:"day"`
	Total   int    `json:"total"`
	Reset   int    `json:"reset"`
	Failed  int    `json:"failed"`
	Skipped int    `json:"skipped"`
}

func newEnvelope(eventType EventType, payload interface{}, now time.Time) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal %s payload: %v", ErrEncode, eventType, err)
	}

	body, err := json.Marshal(Envelope{Type: eventType, OccurredAt: now.UTC(), Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal %s envelope: %v", ErrEncode, eventType, err)
	}
	return body, nil
}
