package book_slot

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-ChargingService/internal/integrations/userservice"
)

// StationRunner загрузка, изменение и сохранение станции с проверкой версии
type StationRunner interface {
	Mutate(ctx context.Context, operation, stationID string, fn func(st *domain.Station) error) (*domain.Station, error)
}

// Engine правила бронирования
type Engine interface {
	Book(station *domain.Station, pointNumber int, r domain.TimeRange, userID string, now time.Time) (domain.Slot, error)
	LabelRange(label string, day time.Time) (domain.TimeRange, error)
	Location() *time.Location
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUserWithGracefulDegradation(ctx context.Context, userID string) (*userservice.User, error)
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
