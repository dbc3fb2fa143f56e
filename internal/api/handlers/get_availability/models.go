package get_availability

import (
	"time"

	getAvailability "github.com/m04kA/SMC-ChargingService/internal/usecase/get_availability"
)

// SlotResponse слот точки
type SlotResponse struct {
	ID       string    `json:"id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Time     string    `json:"time"`
	Booked   bool      `json:"booked"`
	BookedBy *string   `json:"bookedBy,omitempty"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	StationID   string         `json:"stationId"`
	PointNumber int            `json:"pointNumber"`
	Type        string         `json:"type"`
	AsOf        time.Time      `json:"asOf"`
	Slots       []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = SlotResponse{
			ID:       s.ID,
			Start:    s.Start,
			End:      s.End,
			Time:     s.Label,
			Booked:   s.Booked,
			BookedBy: s.BookedBy,
		}
	}

	return &AvailabilityResponse{
		StationID:   resp.StationID,
		PointNumber: resp.PointNumber,
		Type:        resp.ConnectorType,
		AsOf:        resp.AsOf,
		Slots:       slots,
	}
}
