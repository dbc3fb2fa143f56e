package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ChargingService/internal/config"
	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-ChargingService/internal/usecase/reset_slots"
	"github.com/m04kA/SMC-ChargingService/pkg/logger"
	"github.com/m04kA/SMC-ChargingService/pkg/metrics"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Driver: config.StorageDriverMemory, TimeoutSec: 1},
		Booking: config.BookingConfig{SlotMode: string(domain.SlotModeFixedGrid), MaxAttempts: 3, TimeZone: "UTC"},
		Grid:    config.GridConfig{OpenTime: "09:00", CloseTime: "10:00", SlotDurationMinutes: 30},
		Reset:   config.ResetConfig{LockKey: "test:reset", LockTTLSec: 60},
	}
}

func TestBootstrap_MemoryStackResetsStations(t *testing.T) {
	cfg := memoryConfig()
	log := logger.NewNop()

	repo, closeFn, err := OpenStorage(cfg, nil, nil, log)
	require.NoError(t, err)
	defer closeFn()

	engine, err := NewEngine(cfg)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotModeFixedGrid, engine.Mode())

	publisher, err := NewPublisher(cfg, log)
	require.NoError(t, err)
	assert.IsType(t, eventbus.NopPublisher{}, publisher)

	st := &domain.Station{
		ID:             "st-1",
		Name:           "Central",
		Address:        "Main st. 1",
		ChargingPoints: []domain.ChargingPoint{{PointNumber: 1, ConnectorType: domain.ConnectorType2}},
	}
	require.NoError(t, repo.Create(context.Background(), st))

	runner := NewRunner(cfg, repo, metrics.Nop{}, log)
	reset, closeReset, err := NewResetUseCase(cfg, repo, runner, engine, publisher, metrics.Nop{}, log)
	require.NoError(t, err)
	defer closeReset()

	report, err := reset.Execute(context.Background(), &reset_slots.Request{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Reset)

	stored, err := repo.GetByID(context.Background(), "st-1")
	require.NoError(t, err)
	assert.Len(t, stored.ChargingPoints[0].Slots, 2)
}

func TestOpenStorage_UnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.Driver = "sqlite"

	_, _, err := OpenStorage(cfg, nil, nil, logger.NewNop())
	assert.Error(t, err)
}
