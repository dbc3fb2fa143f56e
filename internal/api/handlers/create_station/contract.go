package create_station

import (
	"context"

	"github.com/m04kA/SMC-ChargingService/internal/service/stations/models"
)

type StationService interface {
	Create(ctx context.Context, req *models.CreateStationRequest) (*models.StationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
