package release_slot

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-ChargingService/internal/service/reservation"
)

const operation = "release"

// UseCase use case освобождения слота
type UseCase struct {
	runner       StationRunner
	engine       Engine
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	runner StationRunner,
	engine Engine,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		runner:       runner,
		engine:       engine,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute освобождает занятый слот. Кто бронировал слот, не проверяется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReleaseSlot: station=%s, point=%d, slot=%q, label=%q, by=%s",
		req.StationID, req.PointNumber, req.SlotID, req.Label, req.UserID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReleaseSlot: validation failed: %v", err)
		uc.metrics.ReservationOutcome(operation, "invalid")
		return nil, err
	}

	now := uc.timeProvider.Now()

	sel, err := uc.selector(req, now)
	if err != nil {
		return nil, uc.fail(err)
	}

	var release *domain.Release
	_, err = uc.runner.Mutate(ctx, operation, req.StationID, func(st *domain.Station) error {
		rel, err := uc.engine.Release(st, req.PointNumber, sel, req.UserID, now)
		if err != nil {
			return err
		}
		release = rel
		return nil
	})
	if err != nil {
		return nil, uc.fail(err)
	}

	uc.metrics.ReservationOutcome(operation, "success")
	uc.logger.Info("ReleaseSlot: released slot id=%s on station=%s point=%d (%s)",
		release.SlotID, release.StationID, release.PointNumber, release.Policy)

	uc.publish(ctx, release)

	return &Response{
		StationID:   release.StationID,
		PointNumber: release.PointNumber,
		SlotID:      release.SlotID,
		Start:       release.Range.Start,
		End:         release.Range.End,
		BookedBy:    release.BookedBy,
		ReleasedBy:  release.ReleasedBy,
		ReleasedAt:  release.ReleasedAt,
		Policy:      string(release.Policy),
	}, nil
}

func (uc *UseCase) selector(req *Request, now time.Time) (reservation.SlotSelector, error) {
	switch {
	case req.SlotID != "":
		return reservation.SlotSelector{SlotID: req.SlotID}, nil
	case req.Label != "":
		day := now
		if req.Date != nil {
			day = *req.Date
		}
		r, err := uc.engine.LabelRange(req.Label, day)
		if err != nil {
			return reservation.SlotSelector{}, err
		}
		return reservation.SlotSelector{Range: &r}, nil
	default:
		r, err := domain.NewTimeRange(*req.Start, *req.End)
		if err != nil {
			return reservation.SlotSelector{}, fmt.Errorf("%w: %v", reservation.ErrInvalidRange, err)
		}
		return reservation.SlotSelector{Range: &r}, nil
	}
}

func (uc *UseCase) fail(err error) error {
	outcome, mapped := classifyError(err)
	uc.metrics.ReservationOutcome(operation, outcome)

	switch outcome {
	case "error", "timeout":
		uc.logger.Error("ReleaseSlot: %v", mapped)
	default:
		uc.logger.Warn("ReleaseSlot: %v", mapped)
	}
	return mapped
}

func (uc *UseCase) publish(ctx context.Context, rel *domain.Release) {
	err := uc.publisher.Publish(ctx, eventbus.EventSlotReleased, eventbus.SlotReleased{
		StationID:   rel.StationID,
		PointNumber: rel.PointNumber,
		SlotID:      rel.SlotID,
		Start:       rel.Range.Start,
		End:         rel.Range.End,
		BookedBy:    rel.BookedBy,
		ReleasedBy:  rel.ReleasedBy,
		Policy:      string(rel.Policy),
	})
	if err != nil {
		uc.logger.Warn("ReleaseSlot: failed to publish event for slot id=%s: %v", rel.SlotID, err)
	}
}
