package reservation

import "time"

// IDGenerator источник идентификаторов слотов
type IDGenerator interface {
	NewID() string
	GridSlotID(stationID string, pointNumber int, start time.Time) string
}
