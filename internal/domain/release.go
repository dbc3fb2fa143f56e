package domain

import "time"

// Release запись об освобождении слота (для аудита и событий)
type Release struct {
	StationID   string
	PointNumber int
	SlotID      string
	Range       TimeRange
	BookedBy    *string
	ReleasedBy  string
	ReleasedAt  time.Time
	Policy      ReleasePolicy
}
