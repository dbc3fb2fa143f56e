package create_station

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ChargingService/internal/api/handlers"
	"github.com/m04kA/SMC-ChargingService/internal/service/stations"
	"github.com/m04kA/SMC-ChargingService/internal/service/stations/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStation     = "некорректные данные станции"
)

type Handler struct {
	service StationService
	logger  Logger
}

func NewHandler(service StationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/stations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /stations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	station, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, stations.ErrInvalidInput):
			h.logger.Warn("POST /stations - Invalid station: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStation+": "+err.Error())

		case errors.Is(err, stations.ErrStorageTimeout):
			h.logger.Error("POST /stations - Storage timeout: %v", err)
			handlers.RespondGatewayTimeout(w)

		default:
			h.logger.Error("POST /stations - Failed to create station: name=%q, error=%v", req.Name, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /stations - Station created successfully: station_id=%s, points=%d",
		station.ID, len(station.ChargingPoints))
	handlers.RespondJSON(w, http.StatusCreated, station)
}
