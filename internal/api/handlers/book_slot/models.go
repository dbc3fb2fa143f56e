package book_slot

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/api/handlers"
	bookSlot "github.com/m04kA/SMC-ChargingService/internal/usecase/book_slot"
)

// BookSlotRequest HTTP request model.
// Интервал: start+end (RFC3339) либо метка time ("09:00-09:30") на дату date (YYYY-MM-DD).
type BookSlotRequest struct {
	PointNumber int    `json:"pointNumber"`
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
	Time        string `json:"time,omitempty"`
	Date        string `json:"date,omitempty"`
	UserID      string `json:"userId"`
}

// SlotResponse забронированный слот
type SlotResponse struct {
	ID          string    `json:"id"`
	PointNumber int       `json:"pointNumber"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Time        string    `json:"time"`
	UserID      string    `json:"userId"`
}

// BookSlotResponse HTTP response model
type BookSlotResponse struct {
	Message string       `json:"message"`
	Slot    SlotResponse `json:"slot"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookSlotRequest) ToUseCaseRequest(stationID string, loc *time.Location) (*bookSlot.Request, error) {
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

	return &bookSlot.Request{
		StationID:   stationID,
		PointNumber: r.PointNumber,
		Start:       start,
		End:         end,
		Label:       r.Time,
		Date:        date,
		UserID:      r.UserID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookSlot.Response) *BookSlotResponse {
	return &BookSlotResponse{
		Message: msgBooked,
		Slot: SlotResponse{
			ID:          resp.SlotID,
			PointNumber: resp.PointNumber,
			Start:       resp.Start,
			End:         resp.End,
			Time:        resp.Label,
			UserID:      resp.UserID,
		},
	}
}
