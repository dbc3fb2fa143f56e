package optimistic

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	stationRepo "github.com/m04kA/SMC-ChargingService/internal/infra/storage/station"
)

const (
	DefaultMaxAttempts    = domain.DefaultMaxAttempts
	DefaultStorageTimeout = domain.DefaultStorageTimeoutSec * time.Second
	DefaultBaseBackoff    = 10 * time.Millisecond
)

// Config параметры повторов
type Config struct {
	MaxAttempts    int
	StorageTimeout time.Duration
	BaseBackoff    time.Duration
}

// Runner выполняет цикл загрузка - изменение - сохранение станции
// с проверкой версии и ограниченным числом повторов
type Runner struct {
	repo    StationRepository
	cfg     Config
	metrics Metrics
	logger  Logger
}

func NewRunner(repo StationRepository, cfg Config, metrics Metrics, logger Logger) *Runner {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.StorageTimeout <= 0 {
		cfg.StorageTimeout = DefaultStorageTimeout
	}
	if cfg.BaseBackoff < 0 {
		cfg.BaseBackoff = 0
	}
	return &Runner{repo: repo, cfg: cfg, metrics: metrics, logger: logger}
}

// Load загружает станцию с таймаутом хранилища
func (r *Runner) Load(ctx context.Context, stationID string) (*domain.Station, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.cfg.StorageTimeout)
	defer cancel()

	st, err := r.repo.GetByID(callCtx, stationID)
	if err != nil {
		return nil, r.classify(callCtx, "load", stationID, err)
	}
	return st, nil
}

// Mutate загружает станцию, применяет fn и сохраняет результат.
// Ошибка fn возвращается как есть и не повторяется. При конфликте версий
// весь цикл повторяется, после исчерпания попыток возвращается ErrBusy.
func (r *Runner) Mutate(ctx context.Context, operation, stationID string, fn func(st *domain.Station) error) (*domain.Station, error) {
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		st, err := r.Load(ctx, stationID)
		if err != nil {
			return nil, err
		}

		if err := fn(st); err != nil {
			return nil, err
		}

		err = r.save(ctx, st)
		if err == nil {
			return st, nil
		}
		if !errors.Is(err, stationRepo.ErrVersionConflict) {
			return nil, r.classifyErr(ctx, "save", stationID, err)
		}

		r.metrics.VersionConflict(operation)
		r.logger.Warn("%s: version conflict on station=%s, attempt %d/%d", operation, stationID, attempt, r.cfg.MaxAttempts)

		if attempt < r.cfg.MaxAttempts {
			if err := r.sleep(ctx, attempt); err != nil {
				return nil, fmt.Errorf("%w: %s - backoff interrupted: %v", ErrStorage, operation, err)
			}
		}
	}

	return nil, fmt.Errorf("%w: %s on station=%s after %d attempts", ErrBusy, operation, stationID, r.cfg.MaxAttempts)
}

func (r *Runner) save(ctx context.Context, st *domain.Station) error {
	callCtx, cancel := context.WithTimeout(ctx, r.cfg.StorageTimeout)
	defer cancel()

	if err := r.repo.Save(callCtx, st); err != nil {
		if errors.Is(err, stationRepo.ErrVersionConflict) {
			return err
		}
		return r.classify(callCtx, "save", st.ID, err)
	}
	return nil
}

// classify приводит ошибку хранилища к ошибкам пакета.
// Таймаут определяется по контексту вызова: драйверы оборачивают его по-разному.
func (r *Runner) classify(callCtx context.Context, step, stationID string, err error) error {
	if errors.Is(err, stationRepo.ErrStationNotFound) {
		return fmt.Errorf("%w: id=%s", ErrStationNotFound, stationID)
	}
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		r.logger.Error("Storage timeout on %s station=%s: %v", step, stationID, err)
		return fmt.Errorf("%w: %s station=%s: %v", ErrStorageTimeout, step, stationID, err)
	}
	r.logger.Error("Storage failure on %s station=%s: %v", step, stationID, err)
	return fmt.Errorf("%w: %s station=%s: %v", ErrStorage, step, stationID, err)
}

// classifyErr пропускает уже классифицированные ошибки
func (r *Runner) classifyErr(ctx context.Context, step, stationID string, err error) error {
	if errors.Is(err, ErrStationNotFound) || errors.Is(err, ErrStorageTimeout) || errors.Is(err, ErrStorage) {
		return err
	}
	return r.classify(ctx, step, stationID, err)
}

func (r *Runner) sleep(ctx context.Context, attempt int) error {
	if r.cfg.BaseBackoff == 0 {
		return ctx.Err()
	}

	backoff := r.cfg.BaseBackoff * time.Duration(attempt)
	jitter := time.Duration(rand.Int63n(int64(r.cfg.BaseBackoff)))

	timer := time.NewTimer(backoff + jitter)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
