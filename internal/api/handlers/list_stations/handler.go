package list_stations

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ChargingService/internal/api/handlers"
	"github.com/m04kA/SMC-ChargingService/internal/service/stations"
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

// Handle GET /api/v1/stations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context())
	if err != nil {
		if errors.Is(err, stations.ErrStorageTimeout) {
			h.logger.Error("GET /stations - Storage timeout: %v", err)
			handlers.RespondGatewayTimeout(w)
			return
		}
		h.logger.Error("GET /stations - Failed to list stations: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /stations - Stations retrieved successfully: count=%d", result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
