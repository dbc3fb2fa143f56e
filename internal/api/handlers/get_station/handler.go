package get_station

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ChargingService/internal/api/handlers"
	"github.com/m04kA/SMC-ChargingService/internal/service/stations"
)

const (
	msgStationNotFound = "станция не найдена"
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

// Handle GET /api/v1/stations/{stationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	stationID := mux.Vars(r)["stationId"]

	station, err := h.service.GetByID(r.Context(), stationID)
	if err != nil {
		switch {
		case errors.Is(err, stations.ErrStationNotFound):
			h.logger.Warn("GET /stations/{id} - Station not found: station_id=%s", stationID)
			handlers.RespondNotFound(w, msgStationNotFound)

		case errors.Is(err, stations.ErrStorageTimeout):
			h.logger.Error("GET /stations/{id} - Storage timeout: station_id=%s", stationID)
			handlers.RespondGatewayTimeout(w)

		default:
			h.logger.Error("GET /stations/{id} - Failed to get station: station_id=%s, error=%v", stationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /stations/{id} - Station retrieved successfully: station_id=%s", stationID)
	handlers.RespondJSON(w, http.StatusOK, station)
}
