package release_slot

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ChargingService/internal/api/handlers"
	"github.com/m04kA/SMC-ChargingService/internal/api/middleware"
	releaseSlot "github.com/m04kA/SMC-ChargingService/internal/usecase/release_slot"
)

const (
	msgReleased           = "слот освобожден"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается RFC3339 и дата YYYY-MM-DD"
	msgInvalidPointNumber = "некорректный номер зарядной точки"
	msgInvalidInput       = "некорректные параметры освобождения"
	msgInvalidRange       = "некорректный временной интервал"
	msgStationNotFound    = "станция не найдена"
	msgPointNotFound      = "зарядная точка не найдена"
	msgSlotNotFound       = "забронированный слот не найден"
	msgBusy               = "станция сейчас изменяется, повторите запрос"
)

type Handler struct {
	useCase ReleaseSlotUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase ReleaseSlotUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle POST /api/v1/stations/{stationId}/release
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	stationID := mux.Vars(r)["stationId"]

	var req ReleaseSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /stations/{id}/release - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.UserID == "" {
		if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
			req.UserID = userID
		}
	}

	useCaseReq, err := req.ToUseCaseRequest(stationID, h.loc)
	if err != nil {
		h.logger.Warn("POST /stations/{id}/release - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	h.execute(w, r, "POST /stations/{id}/release", useCaseReq)
}

// HandleDelete DELETE /api/v1/stations/{stationId}/points/{pointNumber}/slots/{slotId}
// Освобождающий берется из заголовка X-User-ID.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	pointNumber, err := handlers.ParsePointNumber(vars["pointNumber"])
	if err != nil {
		h.logger.Warn("DELETE /stations/{id}/points/{n}/slots/{id} - Invalid point number: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPointNumber)
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())

	h.execute(w, r, "DELETE /stations/{id}/points/{n}/slots/{id}", &releaseSlot.Request{
		StationID:   vars["stationId"],
		PointNumber: pointNumber,
		SlotID:      vars["slotId"],
		UserID:      userID,
	})
}

func (h *Handler) execute(w http.ResponseWriter, r *http.Request, route string, req *releaseSlot.Request) {
	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, releaseSlot.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: station_id=%s, error=%v", route, req.StationID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, releaseSlot.ErrInvalidRange):
			h.logger.Warn("%s - Invalid range: station_id=%s, error=%v", route, req.StationID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, releaseSlot.ErrStationNotFound):
			h.logger.Warn("%s - Station not found: station_id=%s", route, req.StationID)
			handlers.RespondNotFound(w, msgStationNotFound)

		case errors.Is(err, releaseSlot.ErrPointNotFound):
			h.logger.Warn("%s - Point not found: station_id=%s, point=%d", route, req.StationID, req.PointNumber)
			handlers.RespondNotFound(w, msgPointNotFound)

		case errors.Is(err, releaseSlot.ErrSlotNotFound):
			h.logger.Warn("%s - Slot not found: station_id=%s, point=%d", route, req.StationID, req.PointNumber)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, releaseSlot.ErrBusy):
			h.logger.Warn("%s - Station busy: station_id=%s", route, req.StationID)
			handlers.RespondBusy(w, msgBusy)

		case errors.Is(err, releaseSlot.ErrStorageTimeout):
			h.logger.Error("%s - Storage timeout: station_id=%s, error=%v", route, req.StationID, err)
			handlers.RespondGatewayTimeout(w)

		default:
			h.logger.Error("%s - Failed to release slot: station_id=%s, point=%d, error=%v",
				route, req.StationID, req.PointNumber, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Slot released successfully: station_id=%s, point=%d, slot_id=%s, released_by=%s",
		route, result.StationID, result.PointNumber, result.SlotID, result.ReleasedBy)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
