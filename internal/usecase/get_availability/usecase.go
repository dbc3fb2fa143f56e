package get_availability

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/service/optimistic"
	"github.com/m04kA/SMC-ChargingService/internal/service/reservation"
)

// UseCase use case получения слотов зарядной точки
type UseCase struct {
	loader       StationLoader
	engine       Engine
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(loader StationLoader, engine Engine, logger Logger) *UseCase {
	return &UseCase{
		loader:       loader,
		engine:       engine,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute возвращает слоты точки (занятые и свободные), которые заканчиваются после asOf
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if strings.TrimSpace(req.StationID) == "" {
		return nil, fmt.Errorf("%w: stationId is required", ErrInvalidInput)
	}
	if req.PointNumber <= 0 {
		return nil, fmt.Errorf("%w: pointNumber must be positive", ErrInvalidInput)
	}

	asOf := uc.timeProvider.Now()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	st, err := uc.loader.Load(ctx, req.StationID)
	if err != nil {
		switch {
		case errors.Is(err, optimistic.ErrStationNotFound):
			uc.logger.Warn("GetAvailability: station id=%s not found", req.StationID)
			return nil, fmt.Errorf("%w: id=%s", ErrStationNotFound, req.StationID)
		case errors.Is(err, optimistic.ErrStorageTimeout):
			return nil, fmt.Errorf("%w: %v", ErrStorageTimeout, err)
		default:
			uc.logger.Error("GetAvailability: failed to load station id=%s: %v", req.StationID, err)
			return nil, fmt.Errorf("%w: failed to load station: %v", ErrInternal, err)
		}
	}

	slots, err := uc.engine.ListAvailability(st, req.PointNumber, asOf)
	if err != nil {
		if errors.Is(err, reservation.ErrPointNotFound) {
			uc.logger.Warn("GetAvailability: point %d not found on station id=%s", req.PointNumber, req.StationID)
			return nil, fmt.Errorf("%w: %v", ErrPointNotFound, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	loc := uc.engine.Location()
	resp := &Response{
		StationID:     st.ID,
		PointNumber:   req.PointNumber,
		ConnectorType: string(st.Point(req.PointNumber).ConnectorType),
		AsOf:          asOf,
		Slots:         make([]Slot, len(slots)),
	}
	for i, s := range slots {
		resp.Slots[i] = Slot{
			ID:       s.ID,
			Start:    s.Range.Start,
			End:      s.Range.End,
			Label:    domain.Label(s.Range, loc),
			Booked:   s.Booked,
			BookedBy: s.BookedBy,
		}
	}

	return resp, nil
}
