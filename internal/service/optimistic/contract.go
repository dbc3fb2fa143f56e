package optimistic

import (
	"context"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// StationRepository хранилище станций с проверкой версии при сохранении
type StationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Station, error)
	Save(ctx context.Context, station *domain.Station) error
}

// Metrics счетчик конфликтов версий
type Metrics interface {
	VersionConflict(operation string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
