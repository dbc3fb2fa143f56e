package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/m04kA/SMC-ChargingService/internal/config"
	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/infra/lock"
	"github.com/m04kA/SMC-ChargingService/internal/infra/storage/station"
	"github.com/m04kA/SMC-ChargingService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-ChargingService/internal/service/optimistic"
	"github.com/m04kA/SMC-ChargingService/internal/service/reservation"
	"github.com/m04kA/SMC-ChargingService/internal/usecase/reset_slots"
	"github.com/m04kA/SMC-ChargingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ChargingService/pkg/metrics"
	"github.com/m04kA/SMC-ChargingService/pkg/txmanager"
)

const connectTimeout = 10 * time.Second

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// StationStore хранилище станций, общее для всех драйверов
type StationStore interface {
	Create(ctx context.Context, st *domain.Station) error
	GetByID(ctx context.Context, id string) (*domain.Station, error)
	List(ctx context.Context) ([]*domain.Station, error)
	ListIDs(ctx context.Context) ([]string, error)
	Save(ctx context.Context, st *domain.Station) error
}

// Metrics коллекторы, нужные бизнес-слою
type Metrics interface {
	ReservationOutcome(operation, outcome string)
	VersionConflict(operation string)
	ResetRun(result string, resetStations, failedStations int)
}

// Publisher публикация событий с закрытием соединения
type Publisher interface {
	Publish(ctx context.Context, eventType eventbus.EventType, payload interface{}) error
	Close() error
}

// CloseFunc освобождает ресурсы, открытые при старте
type CloseFunc func()

// OpenStorage открывает хранилище станций по storage.driver.
// m может быть nil - тогда метрики БД не собираются.
func OpenStorage(cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log Logger) (StationStore, CloseFunc, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		return openPostgres(cfg, m, stopCh, log)
	case config.StorageDriverMongo:
		return openMongo(cfg, log)
	case config.StorageDriverMemory:
		log.Warn("Using in-memory station storage, data will be lost on restart")
		return station.NewMemoryRepository(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func openPostgres(cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log Logger) (StationStore, CloseFunc, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Connected to PostgreSQL: %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrapped *dbmetrics.DB
	if m != nil {
		wrapped = dbmetrics.WrapWithDefault(db, m, cfg.Database.DBName, stopCh)
		log.Info("Database metrics enabled")
	} else {
		wrapped = dbmetrics.Wrap(db, nil)
	}

	repo := station.NewRepository(wrapped, txmanager.NewTransactionManager(wrapped))

	return repo, func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection: %v", err)
		}
	}, nil
}

func openMongo(cfg *config.Config, log Logger) (StationStore, CloseFunc, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.Info("Connected to MongoDB, database=%s", cfg.Mongo.Database)

	repo := station.NewMongoRepository(client.Database(cfg.Mongo.Database))

	return repo, func() {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect from MongoDB: %v", err)
		}
	}, nil
}

// NewEngine движок бронирования по настройкам booking/grid
func NewEngine(cfg *config.Config) (*reservation.Engine, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	engineCfg := reservation.Config{Mode: cfg.SlotMode(), Location: loc}
	if engineCfg.Mode == domain.SlotModeFixedGrid {
		grid, err := cfg.GridTemplate()
		if err != nil {
			return nil, err
		}
		engineCfg.Grid = grid
	}

	return reservation.NewEngine(engineCfg, reservation.UUIDGenerator{})
}

// NewRunner цикл загрузка - изменение - сохранение с повторами
func NewRunner(cfg *config.Config, repo StationStore, m Metrics, log Logger) *optimistic.Runner {
	return optimistic.NewRunner(repo, optimistic.Config{
		MaxAttempts:    cfg.Booking.MaxAttempts,
		StorageTimeout: cfg.StorageTimeout(),
		BaseBackoff:    time.Duration(cfg.Booking.RetryBackoffMs) * time.Millisecond,
	}, m, log)
}

// NewPublisher публикатор событий; при выключенных событиях - заглушка
func NewPublisher(cfg *config.Config, log Logger) (Publisher, error) {
	if !cfg.Events.Enabled {
		log.Info("Reservation events disabled")
		return eventbus.NopPublisher{}, nil
	}

	pub, err := eventbus.NewPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange, log)
	if err != nil {
		return nil, err
	}
	log.Info("Publishing reservation events to exchange=%s", cfg.Events.Exchange)
	return pub, nil
}

// NewResetUseCase сброс слотов с распределенной блокировкой в Redis, если она включена
func NewResetUseCase(
	cfg *config.Config,
	repo StationStore,
	runner *optimistic.Runner,
	engine *reservation.Engine,
	publisher Publisher,
	m Metrics,
	log Logger,
) (*reset_slots.UseCase, CloseFunc, error) {
	var locker reset_slots.Locker
	closeFn := func() {}

	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		client, err := lock.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Connected to Redis at %s, reset lock enabled", cfg.Redis.Addr)

		locker = lock.NewRedisLocker(client)
		closeFn = func() {
			if err := client.Close(); err != nil {
				log.Error("Failed to close Redis client: %v", err)
			}
		}
	}

	uc := reset_slots.NewUseCase(repo, runner, engine, locker, publisher, m, reset_slots.Config{
		StorageTimeout: cfg.StorageTimeout(),
		LockKey:        cfg.Reset.LockKey,
		LockTTL:        time.Duration(cfg.Reset.LockTTLSec) * time.Second,
	}, log)

	return uc, closeFn, nil
}
