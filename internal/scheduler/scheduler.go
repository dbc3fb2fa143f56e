package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-ChargingService/internal/usecase/reset_slots"
)

// ResetUseCase ежедневный сброс слотов
type ResetUseCase interface {
	Execute(ctx context.Context, req *reset_slots.Request) (*reset_slots.Report, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler запускает сброс слотов по cron-расписанию в заданном часовом поясе
type Scheduler struct {
	cron       *cron.Cron
	reset      ResetUseCase
	runTimeout time.Duration
	logger     Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New создает планировщик. Пересекающиеся запуски пропускаются.
func New(spec string, loc *time.Location, reset ResetUseCase, runTimeout time.Duration, logger Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}

	cl := cronLogger{log: logger}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:       c,
		reset:      reset,
		runTimeout: runTimeout,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}

	if _, err := c.AddFunc(spec, s.run); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid reset schedule %q: %w", spec, err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Reset scheduler started, next run at %s", s.Next().Format(time.RFC3339))
}

// Stop останавливает расписание и ждет завершения текущего запуска, но не дольше ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()

	select {
	case <-done.Done():
		s.cancel()
		return nil
	case <-ctx.Done():
		// прерываем текущий запуск: оставшиеся станции попадут в Skipped
		s.cancel()
		return ctx.Err()
	}
}

// Next время следующего запуска
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) run() {
	ctx := s.ctx
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	report, err := s.reset.Execute(ctx, &reset_slots.Request{})
	if err != nil {
		if errors.Is(err, reset_slots.ErrAlreadyRunning) {
			s.logger.Info("Scheduled reset skipped: %v", err)
			return
		}
		s.logger.Error("Scheduled reset failed: %v", err)
		return
	}

	s.logger.Info("Scheduled reset finished in %s: reset=%d failed=%d skipped=%d",
		report.Duration, report.Reset, report.Failed, report.Skipped)
}

// cronLogger адаптер логгера для robfig/cron
type cronLogger struct {
	log Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info("cron: %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: %s: %v %v", msg, err, keysAndValues)
}
