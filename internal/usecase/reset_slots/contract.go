package reset_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-ChargingService/internal/service/reservation"
)

// StationLister список идентификаторов станций
type StationLister interface {
	ListIDs(ctx context.Context) ([]string, error)
}

// StationRunner загрузка, изменение и сохранение станции с проверкой версии
type StationRunner interface {
	Mutate(ctx context.Context, operation, stationID string, fn func(st *domain.Station) error) (*domain.Station, error)
}

// Engine правила сброса слотов
type Engine interface {
	Reset(station *domain.Station, day time.Time) (reservation.ResetResult, error)
	DayOf(t time.Time) time.Time
}

// Locker распределенная блокировка между репликами (Redis)
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}

// EventPublisher публикация событий
type EventPublisher interface {
	Publish(ctx context.Context, eventType eventbus.EventType, payload interface{}) error
}

// Metrics метрики запусков сброса
type Metrics interface {
	ResetRun(result string, reset, failed int)
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
