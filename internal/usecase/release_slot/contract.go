package release_slot

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-ChargingService/internal/service/reservation"
)

// StationRunner загрузка, изменение и сохранение станции с проверкой версии
type StationRunner interface {
	Mutate(ctx context.Context, operation, stationID string, fn func(st *domain.Station) error) (*domain.Station, error)
}

// Engine правила освобождения слотов
type Engine interface {
	Release(station *domain.Station, pointNumber int, sel reservation.SlotSelector, releasedBy string, now time.Time) (*domain.Release, error)
	LabelRange(label string, day time.Time) (domain.TimeRange, error)
}

// EventPublisher публикация событий бронирования
type EventPublisher interface {
	Publish(ctx context.Context, eventType eventbus.EventType, payload interface{}) error
}

// Metrics счетчик результатов операций
type Metrics interface {
	ReservationOutcome(operation, outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
