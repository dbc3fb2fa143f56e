package models

import (
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// Request модели

// ChargingPointInput зарядная точка в запросе на создание станции
type ChargingPointInput struct {
	PointNumber int    `json:"pointNumber"`
	Type        string `json:"type"`
}

// CreateStationRequest запрос на создание станции
type CreateStationRequest struct {
	Name              string               `json:"name"`
	Address           string               `json:"address"`
	DiscountAvailable bool                 `json:"discountAvailable"`
	ChargingPoints    []ChargingPointInput `json:"chargingPoints"`
}

// Response модели

// SlotResponse слот в ответе
type SlotResponse struct {
	ID       string    `json:"id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Label    string    `json:"time"` // "09:00-09:30"
	Booked   bool      `json:"booked"`
	BookedBy *string   `json:"bookedBy,omitempty"`
}

// ChargingPointResponse зарядная точка в ответе
type ChargingPointResponse struct {
	PointNumber int            `json:"pointNumber"`
	Type        string         `json:"type"`
	Slots       []SlotResponse `json:"slots"`
}

// StationResponse станция со всеми точками и слотами
type StationResponse struct {
	ID                string                  `json:"id"`
	Name              string                  `json:"name"`
	Address           string                  `json:"address"`
	DiscountAvailable bool                    `json:"discountAvailable"`
	ChargingPoints    []ChargingPointResponse `json:"chargingPoints"`
	Version           int64                   `json:"version"`
	CreatedAt         time.Time               `json:"createdAt"`
	UpdatedAt         time.Time               `json:"updatedAt"`
}

// StationListResponse список станций
type StationListResponse struct {
	Stations []StationResponse `json:"stations"`
	Total    int               `json:"total"`
}

// UserReservation активная бронь пользователя
type UserReservation struct {
	StationID     string    `json:"stationId"`
	StationName   string    `json:"stationName"`
	Address       string    `json:"address"`
	PointNumber   int       `json:"pointNumber"`
	ConnectorType string    `json:"type"`
	SlotID        string    `json:"slotId"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Label         string    `json:"time"`
}

// UserReservationsResponse брони пользователя, которые еще не закончились
type UserReservationsResponse struct {
	UserID       string            `json:"userId"`
	Reservations []UserReservation `json:"reservations"`
	Total        int               `json:"total"`
}

// Конвертеры

// FromDomainSlot конвертирует слот, метка строится в часовом поясе loc
func FromDomainSlot(s domain.Slot, loc *time.Location) SlotResponse {
	return SlotResponse{
		ID:       s.ID,
		Start:    s.Range.Start,
		End:      s.Range.End,
		Label:    domain.Label(s.Range, loc),
		Booked:   s.Booked,
		BookedBy: s.BookedBy,
	}
}

// FromDomainStation конвертирует станцию
func FromDomainStation(st *domain.Station, loc *time.Location) StationResponse {
	resp := StationResponse{
		ID:                st.ID,
		Name:              st.Name,
		Address:           st.Address,
		DiscountAvailable: st.DiscountAvailable,
		ChargingPoints:    make([]ChargingPointResponse, len(st.ChargingPoints)),
		Version:           st.Version,
		CreatedAt:         st.CreatedAt,
		UpdatedAt:         st.UpdatedAt,
	}
	for i, p := range st.ChargingPoints {
		cp := ChargingPointResponse{
			PointNumber: p.PointNumber,
			Type:        string(p.ConnectorType),
			Slots:       make([]SlotResponse, len(p.Slots)),
		}
		for j, s := range p.Slots {
			cp.Slots[j] = FromDomainSlot(s, loc)
		}
		resp.ChargingPoints[i] = cp
	}
	return resp
}
