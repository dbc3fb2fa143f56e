package get_user_reservations

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ChargingService/internal/api/handlers"
	"github.com/m04kA/SMC-ChargingService/internal/service/stations"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
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

// Handle GET /api/v1/users/{userId}/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	result, err := h.service.GetUserReservations(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, stations.ErrInvalidInput):
			h.logger.Warn("GET /users/{userId}/reservations - Invalid user ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidUserID)

		case errors.Is(err, stations.ErrStorageTimeout):
			h.logger.Error("GET /users/{userId}/reservations - Storage timeout: user_id=%s", userID)
			handlers.RespondGatewayTimeout(w)

		default:
			h.logger.Error("GET /users/{userId}/reservations - Failed to get reservations: user_id=%s, error=%v",
				userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/{userId}/reservations - Reservations retrieved successfully: user_id=%s, count=%d",
		userID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
