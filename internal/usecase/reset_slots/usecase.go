package reset_slots

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-ChargingService/internal/service/optimistic"
)

const (
	operation = "reset"

	DefaultLockKey = "charging:reset-slots"
	DefaultLockTTL = 10 * time.Minute
)

// Config параметры сброса
type Config struct {
	StorageTimeout time.Duration
	LockKey        string
	LockTTL        time.Duration
}

// UseCase ежедневный сброс слотов всех станций
type UseCase struct {
	mu sync.Mutex // не более одного запуска в процессе

	lister       StationLister
	runner       StationRunner
	engine       Engine
	locker       Locker
	publisher    EventPublisher
	metrics      Metrics
	cfg          Config
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// locker может быть nil - тогда используется только блокировка внутри процесса.
func NewUseCase(
	lister StationLister,
	runner StationRunner,
	engine Engine,
	locker Locker,
	publisher EventPublisher,
	metrics Metrics,
	cfg Config,
	logger Logger,
) *UseCase {
	if cfg.StorageTimeout <= 0 {
		cfg.StorageTimeout = optimistic.DefaultStorageTimeout
	}
	if cfg.LockKey == "" {
		cfg.LockKey = DefaultLockKey
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = DefaultLockTTL
	}

	return &UseCase{
		lister:       lister,
		runner:       runner,
		engine:       engine,
		locker:       locker,
		publisher:    publisher,
		metrics:      metrics,
		cfg:          cfg,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute сбрасывает слоты каждой станции на сутки req.Day.
// Ошибка одной станции не прерывает обход, она учитывается в отчете.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Report, error) {
	if !uc.mu.TryLock() {
		uc.logger.Warn("ResetSlots: previous run is still in progress, skipping")
		uc.metrics.ResetRun("skipped", 0, 0)
		return nil, ErrAlreadyRunning
	}
	defer uc.mu.Unlock()

	started := uc.timeProvider.Now()
	day := started
	if req != nil && req.Day != nil {
		day = *req.Day
	}
	day = uc.engine.DayOf(day)

	release, err := uc.lock(ctx)
	if err != nil {
		uc.metrics.ResetRun("skipped", 0, 0)
		return nil, err
	}
	defer release()

	ids, err := uc.listIDs(ctx)
	if err != nil {
		uc.metrics.ResetRun("failed", 0, 0)
		return nil, err
	}

	uc.logger.Info("ResetSlots: resetting %d stations for %s", len(ids), day.Format(domain.DateFormat))

	report := &Report{Day: day, Total: len(ids)}
	for i, id := range ids {
		if ctx.Err() != nil {
			report.Skipped += len(ids) - i
			uc.logger.Warn("ResetSlots: interrupted, %d stations left: %v", len(ids)-i, ctx.Err())
			break
		}
		uc.resetStation(ctx, id, day, report)
	}

	report.Duration = uc.timeProvider.Now().Sub(started)

	result := "success"
	if report.Failed > 0 {
		result = "partial"
	}
	uc.metrics.ResetRun(result, report.Reset, report.Failed)

	uc.logger.Info("ResetSlots: done for %s: total=%d reset=%d failed=%d skipped=%d dropped_bookings=%d",
		day.Format(domain.DateFormat), report.Total, report.Reset, report.Failed, report.Skipped, report.DroppedBookings)

	uc.publish(ctx, report)

	return report, nil
}

func (uc *UseCase) resetStation(ctx context.Context, id string, day time.Time, report *Report) {
	var dropped int
	_, err := uc.runner.Mutate(ctx, operation, id, func(st *domain.Station) error {
		res, err := uc.engine.Reset(st, day)
		if err != nil {
			return err
		}
		dropped = res.DroppedBookings
		return nil
	})

	switch {
	case err == nil:
		report.Reset++
		report.DroppedBookings += dropped
	case errors.Is(err, optimistic.ErrStationNotFound):
		// станцию удалили между получением списка и сбросом
		report.Skipped++
	default:
		report.Failed++
		uc.logger.Error("ResetSlots: failed to reset station id=%s: %v", id, err)
	}
}

func (uc *UseCase) listIDs(ctx context.Context) ([]string, error) {
	listCtx, cancel := context.WithTimeout(ctx, uc.cfg.StorageTimeout)
	defer cancel()

	ids, err := uc.lister.ListIDs(listCtx)
	if err != nil {
		if errors.Is(listCtx.Err(), context.DeadlineExceeded) {
			uc.logger.Error("ResetSlots: timeout listing stations: %v", err)
			return nil, fmt.Errorf("%w: list stations: %v", ErrStorageTimeout, err)
		}
		uc.logger.Error("ResetSlots: failed to list stations: %v", err)
		return nil, fmt.Errorf("%w: list stations: %v", ErrInternal, err)
	}
	return ids, nil
}

// lock берет распределенную блокировку. Если Redis недоступен, сброс
// выполняется без неё: повторный сброс идемпотентен и защищен версией станции.
func (uc *UseCase) lock(ctx context.Context) (func(), error) {
	if uc.locker == nil {
		return func() {}, nil
	}

	token, ok, err := uc.locker.Acquire(ctx, uc.cfg.LockKey, uc.cfg.LockTTL)
	if err != nil {
		uc.logger.Warn("ResetSlots: distributed lock unavailable, continuing without it: %v", err)
		return func() {}, nil
	}
	if !ok {
		uc.logger.Info("ResetSlots: another replica holds the reset lock, skipping")
		return nil, ErrAlreadyRunning
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), uc.cfg.StorageTimeout)
		defer cancel()
		if err := uc.locker.Release(releaseCtx, uc.cfg.LockKey, token); err != nil {
			uc.logger.Warn("ResetSlots: failed to release lock: %v", err)
		}
	}, nil
}

func (uc *UseCase) publish(ctx context.Context, report *Report) {
	err := uc.publisher.Publish(ctx, eventbus.EventStationsReset, eventbus.StationsReset{
		Day:     report.Day.Format(domain.DateFormat),
		Total:   report.Total,
		Reset:   report.Reset,
		Failed:  report.Failed,
		Skipped: report.Skipped,
	})
	if err != nil {
		uc.logger.Warn("ResetSlots: failed to publish event: %v", err)
	}
}
