package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ChargingService/internal/api/handlers"
	bookSlotHandler "github.com/m04kA/SMC-ChargingService/internal/api/handlers/book_slot"
	createStationHandler "github.com/m04kA/SMC-ChargingService/internal/api/handlers/create_station"
	getAvailabilityHandler "github.com/m04kA/SMC-ChargingService/internal/api/handlers/get_availability"
	getStationHandler "github.com/m04kA/SMC-ChargingService/internal/api/handlers/get_station"
	getUserReservationsHandler "github.com/m04kA/SMC-ChargingService/internal/api/handlers/get_user_reservations"
	listStationsHandler "github.com/m04kA/SMC-ChargingService/internal/api/handlers/list_stations"
	releaseSlotHandler "github.com/m04kA/SMC-ChargingService/internal/api/handlers/release_slot"
	"github.com/m04kA/SMC-ChargingService/internal/api/middleware"
	"github.com/m04kA/SMC-ChargingService/internal/app"
	"github.com/m04kA/SMC-ChargingService/internal/config"
	userServiceClient "github.com/m04kA/SMC-ChargingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-ChargingService/internal/scheduler"
	"github.com/m04kA/SMC-ChargingService/internal/service/reservation"
	stationsService "github.com/m04kA/SMC-ChargingService/internal/service/stations"
	bookSlotUC "github.com/m04kA/SMC-ChargingService/internal/usecase/book_slot"
	getAvailabilityUC "github.com/m04kA/SMC-ChargingService/internal/usecase/get_availability"
	releaseSlotUC "github.com/m04kA/SMC-ChargingService/internal/usecase/release_slot"
	"github.com/m04kA/SMC-ChargingService/pkg/logger"
	"github.com/m04kA/SMC-ChargingService/pkg/metrics"
)

// recoveryLogger адаптер логгера для gorilla RecoveryHandler
type recoveryLogger struct {
	log *logger.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Error("Recovered from panic: %s", fmt.Sprint(v...))
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ChargingService...")
	log.Info("Configuration loaded from config.toml (storage=%s, slot_mode=%s)", cfg.Storage.Driver, cfg.Booking.SlotMode)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var bizMetrics app.Metrics = metrics.Nop{}
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		bizMetrics = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к хранилищу станций
	repo, closeStorage, err := app.OpenStorage(cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to open station storage: %v", err)
	}
	defer closeStorage()

	engine, err := app.NewEngine(cfg)
	if err != nil {
		log.Fatal("Failed to initialize reservation engine: %v", err)
	}
	log.Info("Reservation engine initialized (mode=%s, timezone=%s)", engine.Mode(), engine.Location())

	publisher, err := app.NewPublisher(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize event publisher: %v", err)
	}
	defer publisher.Close()

	// Клиент UserService опционален: без URL пользователь не проверяется
	var userClient bookSlotUC.UserServiceClient
	if cfg.UserService.URL != "" {
		userClient = userServiceClient.NewClient(
			cfg.UserService.URL,
			time.Duration(cfg.UserService.Timeout)*time.Second,
			log,
		)
		log.Info("Integration clients initialized (UserService=%s timeout=%ds)", cfg.UserService.URL, cfg.UserService.Timeout)
	} else {
		log.Warn("UserService URL is not set, user lookup disabled")
	}

	runner := app.NewRunner(cfg, repo, bizMetrics, log)

	// Инициализируем сервисы
	stationSvc := stationsService.NewService(
		repo,
		engine,
		reservation.UUIDGenerator{},
		cfg.StorageTimeout(),
		log,
	)

	// Инициализируем use cases
	bookSlotUseCase := bookSlotUC.NewUseCase(runner, engine, userClient, publisher, bizMetrics, log)
	releaseSlotUseCase := releaseSlotUC.NewUseCase(runner, engine, publisher, bizMetrics, log)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(runner, engine, log)

	resetUseCase, closeReset, err := app.NewResetUseCase(cfg, repo, runner, engine, publisher, bizMetrics, log)
	if err != nil {
		log.Fatal("Failed to initialize slot reset: %v", err)
	}
	defer closeReset()

	// Планировщик ежедневного сброса
	var resetScheduler *scheduler.Scheduler
	if cfg.Reset.Enabled {
		resetScheduler, err = scheduler.New(
			cfg.Reset.Schedule,
			engine.Location(),
			resetUseCase,
			time.Duration(cfg.Reset.TimeoutSec)*time.Second,
			log,
		)
		if err != nil {
			log.Fatal("Failed to initialize reset scheduler: %v", err)
		}
		resetScheduler.Start()
		log.Info("Daily slot reset scheduled: %q, next run at %s", cfg.Reset.Schedule, resetScheduler.Next().Format(time.RFC3339))
	} else {
		log.Warn("Daily slot reset is disabled")
	}

	// Инициализируем handlers
	loc := engine.Location()
	createStation := createStationHandler.NewHandler(stationSvc, log)
	listStations := listStationsHandler.NewHandler(stationSvc, log)
	getStation := getStationHandler.NewHandler(stationSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(stationSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	bookSlot := bookSlotHandler.NewHandler(bookSlotUseCase, loc, log)
	releaseSlot := releaseSlotHandler.NewHandler(releaseSlotUseCase, loc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	if cfg.RateLimit.Enabled {
		api.Use(middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, log).Middleware)
		log.Info("Rate limiting enabled: rps=%.1f burst=%d", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// Публичные endpoints
	api.HandleFunc("/stations", createStation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/stations", listStations.Handle).Methods(http.MethodGet)
	api.HandleFunc("/stations/{stationId}", getStation.Handle).Methods(http.MethodGet)
	api.HandleFunc("/stations/{stationId}/points/{pointNumber}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// userId передается в теле запроса
	api.HandleFunc("/stations/{stationId}/book", bookSlot.Handle).Methods(http.MethodPost)
	api.HandleFunc("/stations/{stationId}/release", releaseSlot.Handle).Methods(http.MethodPost)
	api.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// Защищенные endpoints (требуют X-User-ID)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/stations/{stationId}/points/{pointNumber}/slots/{slotId}",
		releaseSlot.HandleDelete).Methods(http.MethodDelete)

	// CORS и восстановление после паники
	var handler http.Handler = r
	handler = gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(cfg.CORS.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", middleware.UserIDHeader}),
	)(handler)
	handler = gorillaHandlers.RecoveryHandler(gorillaHandlers.RecoveryLogger(recoveryLogger{log: log}))(handler)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся текущего сброса слотов
	if resetScheduler != nil {
		if err := resetScheduler.Stop(shutdownCtx); err != nil {
			log.Error("Reset scheduler did not stop in time: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
