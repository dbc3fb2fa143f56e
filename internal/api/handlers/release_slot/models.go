package release_slot

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/api/handlers"
	releaseSlot "github.com/m04kA/SMC-ChargingService/internal/usecase/release_slot"
)

// ReleaseSlotRequest HTTP request model.
// Слот указывается одним способом: slotId, start+end или time+date.
type ReleaseSlotRequest struct {
	PointNumber int    `json:"pointNumber"`
	SlotID      string `json:"slotId,omitempty"`
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
	Time        string `json:"time,omitempty"`
	Date        string `json:"date,omitempty"`
	UserID      string `json:"userId"`
}

// ReleaseResponse запись об освобождении
type ReleaseResponse struct {
	StationID   string    `json:"stationId"`
	PointNumber int       `json:"pointNumber"`
	SlotID      string    `json:"slotId"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	BookedBy    *string   `json:"bookedBy,omitempty"`
	ReleasedBy  string    `json:"releasedBy"`
	ReleasedAt  time.Time `json:"releasedAt"`
	Policy      string    `json:"policy"`
}

// ReleaseSlotResponse HTTP response model
type ReleaseSlotResponse struct {
	Message string          `json:"message"`
	Release ReleaseResponse `json:"release"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReleaseSlotRequest) ToUseCaseRequest(stationID string, loc *time.Location) (*releaseSlot.Request, error) {
	start, err := handlers.ParseOptionalTime(r.Start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := handlers.ParseOptionalTime(r.End)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	date, err := handlers.ParseOptionalDate(r.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	return &releaseSlot.Request{
		StationID:   stationID,
		PointNumber: r.PointNumber,
		SlotID:      r.SlotID,
		Start:       start,
		End:         end,
		Label:       r.Time,
		Date:        date,
		UserID:      r.UserID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *releaseSlot.Response) *ReleaseSlotResponse {
	return &ReleaseSlotResponse{
		Message: msgReleased,
		Release: ReleaseResponse{
			StationID:   resp.StationID,
			PointNumber: resp.PointNumber,
			SlotID:      resp.SlotID,
			Start:       resp.Start,
			End:         resp.End,
			BookedBy:    resp.BookedBy,
			ReleasedBy:  resp.ReleasedBy,
			ReleasedAt:  resp.ReleasedAt,
			Policy:      resp.Policy,
		},
	}
}
