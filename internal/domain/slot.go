package domain

import (
	"time"

	"github.com/m04kA/SMC-ChargingService/pkg/ptr"
)

// Slot интервал бронирования на зарядной точке
type Slot struct {
	ID       string
	Range    TimeRange
	Booked   bool
	BookedBy *string // задан тогда и только тогда, когда Booked

	// Аудит последнего освобождения (для слотов, которые остаются в сетке)
	ReleasedBy *string
	ReleasedAt *time.Time

	CreatedAt time.Time
}

// Book помечает слот занятым пользователем userID
func (s *Slot) Book(userID string) {
	s.Booked = true
	s.BookedBy = ptr.Ptr(userID)
}

// Free снимает бронь и запоминает, кто её снял
func (s *Slot) Free(releasedBy string, at time.Time) {
	s.Booked = false
	s.BookedBy = nil
	s.ReleasedBy = ptr.Ptr(releasedBy)
	s.ReleasedAt = ptr.Ptr(at)
}

// IsBookedBy проверяет, что слот занят указанным пользователем
func (s *Slot) IsBookedBy(userID string) bool {
	return s.Booked && s.BookedBy != nil && *s.BookedBy == userID
}

// Clone возвращает копию слота без общих указателей
func (s Slot) Clone() Slot {
	c := s
	if s.BookedBy != nil {
		c.BookedBy = ptr.Ptr(*s.BookedBy)
	}
	if s.ReleasedBy != nil {
		c.ReleasedBy = ptr.Ptr(*s.ReleasedBy)
	}
	if s.ReleasedAt != nil {
		c.ReleasedAt = ptr.Ptr(*s.ReleasedAt)
	}
	return c
}
