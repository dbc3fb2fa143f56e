package get_user_reservations

import (
	"context"

	"github.com/m04kA/SMC-ChargingService/internal/service/stations/models"
)

type StationService interface {
	GetUserReservations(ctx context.Context, userID string) (*models.UserReservationsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
