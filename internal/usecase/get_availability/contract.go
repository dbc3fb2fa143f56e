package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// StationLoader загрузка станции с таймаутом хранилища
type StationLoader interface {
	Load(ctx context.Context, stationID string) (*domain.Station, error)
}

// Engine правила выборки слотов
type Engine interface {
	ListAvailability(station *domain.Station, pointNumber int, asOf time.Time) ([]domain.Slot, error)
	Location() *time.Location
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
