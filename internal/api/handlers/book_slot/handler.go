package book_slot

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ChargingService/internal/api/handlers"
	"github.com/m04kA/SMC-ChargingService/internal/api/middleware"
	bookSlot "github.com/m04kA/SMC-ChargingService/internal/usecase/book_slot"
)

const (
	msgBooked             = "слот успешно забронирован"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается RFC3339 и дата YYYY-MM-DD"
	msgInvalidInput       = "некорректные параметры бронирования"
	msgInvalidRange       = "некорректный временной интервал"
	msgStationNotFound    = "станция не найдена"
	msgPointNotFound      = "зарядная точка не найдена"
	msgUserNotFound       = "пользователь не найден"
	msgSlotConflict       = "выбранный интервал уже занят"
	msgBusy               = "станция сейчас изменяется, повторите запрос"
)

type Handler struct {
	useCase BookSlotUseCase
	loc     *time.Location
	logger  Logger
}

// NewHandler loc - часовой пояс, в котором разбирается поле date
func NewHandler(useCase BookSlotUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle POST /api/v1/stations/{stationId}/book
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	stationID := mux.Vars(r)["stationId"]

	var req BookSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /stations/{id}/book - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// userId из тела, иначе из заголовка X-User-ID
	if req.UserID == "" {
		if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
			req.UserID = userID
		}
	}

	useCaseReq, err := req.ToUseCaseRequest(stationID, h.loc)
	if err != nil {
		h.logger.Warn("POST /stations/{id}/book - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, bookSlot.ErrInvalidInput):
			h.logger.Warn("POST /stations/{id}/book - Invalid input: station_id=%s, error=%v", stationID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, bookSlot.ErrInvalidRange):
			h.logger.Warn("POST /stations/{id}/book - Invalid range: station_id=%s, error=%v", stationID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, bookSlot.ErrStationNotFound):
			h.logger.Warn("POST /stations/{id}/book - Station not found: station_id=%s", stationID)
			handlers.RespondNotFound(w, msgStationNotFound)

		case errors.Is(err, bookSlot.ErrPointNotFound):
			h.logger.Warn("POST /stations/{id}/book - Point not found: station_id=%s, point=%d", stationID, req.PointNumber)
			handlers.RespondNotFound(w, msgPointNotFound)

		case errors.Is(err, bookSlot.ErrUserNotFound):
			h.logger.Warn("POST /stations/{id}/book - User not found: user_id=%s", req.UserID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, bookSlot.ErrSlotConflict):
			h.logger.Warn("POST /stations/{id}/book - Slot conflict: station_id=%s, point=%d", stationID, req.PointNumber)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, bookSlot.ErrBusy):
			h.logger.Warn("POST /stations/{id}/book - Station busy: station_id=%s", stationID)
			handlers.RespondBusy(w, msgBusy)

		case errors.Is(err, bookSlot.ErrStorageTimeout):
			h.logger.Error("POST /stations/{id}/book - Storage timeout: station_id=%s, error=%v", stationID, err)
			handlers.RespondGatewayTimeout(w)

		default:
			h.logger.Error("POST /stations/{id}/book - Failed to book slot: station_id=%s, point=%d, error=%v",
				stationID, req.PointNumber, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /stations/{id}/book - Slot booked successfully: station_id=%s, point=%d, slot_id=%s, user_id=%s",
		stationID, result.PointNumber, result.SlotID, result.UserID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
