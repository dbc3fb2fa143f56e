package stations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// StationRepository интерфейс репозитория станций
type StationRepository interface {
	Create(ctx context.Context, station *domain.Station) error
	GetByID(ctx context.Context, id string) (*domain.Station, error)
	List(ctx context.Context) ([]*domain.Station, error)
}

// Engine начальное заполнение слотов новой станции
type Engine interface {
	InitializePoints(station *domain.Station, day time.Time) error
	Location() *time.Location
}

// IDGenerator генератор идентификаторов станций
type IDGenerator interface {
	NewID() string
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
