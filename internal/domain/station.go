package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidStation возвращается при некорректных данных станции
	ErrInvalidStation = errors.New("domain: invalid station")
)

// Station зарядная станция. Единица хранения и оптимистичной блокировки:
// все изменения точек и слотов сохраняются одной атомарной записью с проверкой Version.
type Station struct {
	ID                string
	Name              string
	Address           string
	DiscountAvailable bool
	ChargingPoints    []ChargingPoint
	Version           int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Point возвращает зарядную точку по номеру
func (s *Station) Point(number int) *ChargingPoint {
	for i := range s.ChargingPoints {
		if s.ChargingPoints[i].PointNumber == number {
			return &s.ChargingPoints[i]
		}
	}
	return nil
}

// Validate проверяет обязательные поля и уникальность номеров точек
func (s *Station) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidStation)
	}
	if strings.TrimSpace(s.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidStation)
	}

	seen := make(map[int]struct{}, len(s.ChargingPoints))
	for _, p := range s.ChargingPoints {
		if p.PointNumber <= 0 {
			return fmt.Errorf("%w: point number must be positive, got %d", ErrInvalidStation, p.PointNumber)
		}
		if _, dup := seen[p.PointNumber]; dup {
			return fmt.Errorf("%w: duplicate point number %d", ErrInvalidStation, p.PointNumber)
		}
		if _, err := ParseConnectorType(string(p.ConnectorType)); err != nil {
			return fmt.Errorf("%w: point %d: %v", ErrInvalidStation, p.PointNumber, err)
		}
		seen[p.PointNumber] = struct{}{}
	}
	return nil
}

// Clone глубокая копия станции
func (s *Station) Clone() *Station {
	c := *s
	c.ChargingPoints = make([]ChargingPoint, len(s.ChargingPoints))
	for i, p := range s.ChargingPoints {
		c.ChargingPoints[i] = p.Clone()
	}
	return &c
}

// SlotCount общее количество слотов на станции
func (s *Station) SlotCount() int {
	n := 0
	for _, p := range s.ChargingPoints {
		n += len(p.Slots)
	}
	return n
}
