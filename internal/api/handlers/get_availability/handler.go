package get_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ChargingService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-ChargingService/internal/usecase/get_availability"
)

const (
	msgInvalidPointNumber = "некорректный номер зарядной точки"
	msgInvalidAsOf        = "некорректный параметр asOf, ожидается RFC3339"
	msgStationNotFound    = "станция не найдена"
	msgPointNotFound      = "зарядная точка не найдена"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/stations/{stationId}/points/{pointNumber}/availability
// Query params: asOf (optional, RFC3339)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	stationID := vars["stationId"]

	pointNumber, err := handlers.ParsePointNumber(vars["pointNumber"])
	if err != nil {
		h.logger.Warn("GET /stations/{id}/points/{n}/availability - Invalid point number: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPointNumber)
		return
	}

	asOf, err := handlers.ParseOptionalTime(r.URL.Query().Get("asOf"))
	if err != nil {
		h.logger.Warn("GET /stations/{id}/points/{n}/availability - Invalid asOf: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAsOf)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		StationID:   stationID,
		PointNumber: pointNumber,
		AsOf:        asOf,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /stations/{id}/points/{n}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPointNumber)

		case errors.Is(err, getAvailability.ErrStationNotFound):
			h.logger.Warn("GET /stations/{id}/points/{n}/availability - Station not found: station_id=%s", stationID)
			handlers.RespondNotFound(w, msgStationNotFound)

		case errors.Is(err, getAvailability.ErrPointNotFound):
			h.logger.Warn("GET /stations/{id}/points/{n}/availability - Point not found: station_id=%s, point=%d",
				stationID, pointNumber)
			handlers.RespondNotFound(w, msgPointNotFound)

		case errors.Is(err, getAvailability.ErrStorageTimeout):
			h.logger.Error("GET /stations/{id}/points/{n}/availability - Storage timeout: station_id=%s", stationID)
			handlers.RespondGatewayTimeout(w)

		default:
			h.logger.Error("GET /stations/{id}/points/{n}/availability - Failed to get slots: station_id=%s, point=%d, error=%v",
				stationID, pointNumber, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /stations/{id}/points/{n}/availability - Slots retrieved successfully: station_id=%s, point=%d, slots_count=%d",
		stationID, pointNumber, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
