package release_slot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ChargingService/internal/service/optimistic"
	"github.com/m04kA/SMC-ChargingService/internal/service/reservation"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.StationID) == "" {
		return fmt.Errorf("%w: stationId is required", ErrInvalidInput)
	}

	if req.PointNumber <= 0 {
		return fmt.Errorf("%w: pointNumber must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}

	selectors := 0
	if req.SlotID != "" {
		selectors++
	}
	if req.Start != nil || req.End != nil {
		if req.Start == nil || req.End == nil {
			return fmt.Errorf("%w: both start and end are required", ErrInvalidInput)
		}
		selectors++
	}
	if req.Label != "" {
		selectors++
	}
	if selectors != 1 {
		return fmt.Errorf("%w: exactly one of slotId, start and end, time label is required", ErrInvalidInput)
	}

	return nil
}

// classifyError переводит ошибки движка и хранилища в метку метрики и ошибку usecase
func classifyError(err error) (string, error) {
	switch {
	case errors.Is(err, reservation.ErrInvalidRange):
		return "invalid", fmt.Errorf("%w: %v", ErrInvalidRange, err)
	case errors.Is(err, reservation.ErrInvalidInput):
		return "invalid", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, reservation.ErrPointNotFound):
		return "not_found", fmt.Errorf("%w: %v", ErrPointNotFound, err)
	case errors.Is(err, reservation.ErrSlotNotFound):
		return "not_found", fmt.Errorf("%w: %v", ErrSlotNotFound, err)
	case errors.Is(err, optimistic.ErrStationNotFound):
		return "not_found", fmt.Errorf("%w: %v", ErrStationNotFound, err)
	case errors.Is(err, optimistic.ErrBusy):
		return "busy", fmt.Errorf("%w: %v", ErrBusy, err)
	case errors.Is(err, optimistic.ErrStorageTimeout):
		return "timeout", fmt.Errorf("%w: %v", ErrStorageTimeout, err)
	default:
		return "error", fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
