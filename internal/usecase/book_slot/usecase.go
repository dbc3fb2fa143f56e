package book_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/integrations/eventbus"
	userClient "github.com/m04kA/SMC-ChargingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-ChargingService/internal/service/reservation"
)

const operation = "book"

// UseCase use case бронирования слота
type UseCase struct {
	runner       StationRunner
	engine       Engine
	userClient   UserServiceClient
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// userClient может быть nil - тогда пользователь не проверяется.
func NewUseCase(
	runner StationRunner,
	engine Engine,
	userClient UserServiceClient,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		runner:       runner,
		engine:       engine,
		userClient:   userClient,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute бронирует интервал на зарядной точке.
// Проверка конфликта и сохранение выполняются над свежей версией станции,
// конкурентное изменение станции приводит к повтору всего цикла.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookSlot: station=%s, point=%d, user=%s", req.StationID, req.PointNumber, req.UserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookSlot: validation failed: %v", err)
		uc.metrics.ReservationOutcome(operation, "invalid")
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Определяем интервал
	r, err := uc.resolveRange(req, now)
	if err != nil {
		uc.logger.Warn("BookSlot: bad time range: %v", err)
		return nil, uc.fail(err)
	}

	// 3. Проверяем пользователя
	if err := uc.checkUser(ctx, req.UserID); err != nil {
		uc.metrics.ReservationOutcome(operation, "not_found")
		return nil, err
	}

	// 4. Бронируем на свежей версии станции
	var booked domain.Slot
	_, err = uc.runner.Mutate(ctx, operation, req.StationID, func(st *domain.Station) error {
		slot, err := uc.engine.Book(st, req.PointNumber, r, req.UserID, now)
		if err != nil {
			return err
		}
		booked = slot
		return nil
	})
	if err != nil {
		return nil, uc.fail(err)
	}

	uc.metrics.ReservationOutcome(operation, "success")
	uc.logger.Info("BookSlot: booked slot id=%s on station=%s point=%d %s for user=%s",
		booked.ID, req.StationID, req.PointNumber, booked.Range, req.UserID)

	uc.publish(ctx, req, booked)

	return &Response{
		SlotID:      booked.ID,
		StationID:   req.StationID,
		PointNumber: req.PointNumber,
		Start:       booked.Range.Start,
		End:         booked.Range.End,
		Label:       domain.Label(booked.Range, uc.engine.Location()),
		UserID:      req.UserID,
	}, nil
}

func (uc *UseCase) resolveRange(req *Request, now time.Time) (domain.TimeRange, error) {
	if req.Label == "" {
		r, err := domain.NewTimeRange(*req.Start, *req.End)
		if err != nil {
			return domain.TimeRange{}, fmt.Errorf("%w: %v", reservation.ErrInvalidRange, err)
		}
		return r, nil
	}

	day := now
	if req.Date != nil {
		day = *req.Date
	}
	return uc.engine.LabelRange(req.Label, day)
}

func (uc *UseCase) checkUser(ctx context.Context, userID string) error {
	if uc.userClient == nil {
		return nil
	}

	_, err := uc.userClient.GetUserWithGracefulDegradation(ctx, userID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, userClient.ErrUserNotFound):
		uc.logger.Warn("BookSlot: user id=%s not found", userID)
		return fmt.Errorf("%w: id=%s", ErrUserNotFound, userID)
	default:
		// UserService недоступен: бронируем без проверки
		uc.logger.Warn("BookSlot: skipping user check: %v", err)
		return nil
	}
}

func (uc *UseCase) fail(err error) error {
	outcome, mapped := classifyError(err)
	uc.metrics.ReservationOutcome(operation, outcome)

	switch outcome {
	case "error", "timeout":
		uc.logger.Error("BookSlot: %v", mapped)
	default:
		uc.logger.Warn("BookSlot: %v", mapped)
	}
	return mapped
}

func (uc *UseCase) publish(ctx context.Context, req *Request, slot domain.Slot) {
	err := uc.publisher.Publish(ctx, eventbus.EventSlotBooked, eventbus.SlotBooked{
		StationID:   req.StationID,
		PointNumber: req.PointNumber,
		SlotID:      slot.ID,
		Start:       slot.Range.Start,
		End:         slot.Range.End,
		UserID:      req.UserID,
	})
	if err != nil {
		uc.logger.Warn("BookSlot: failed to publish event for slot id=%s: %v", slot.ID, err)
	}
}
