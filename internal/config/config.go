package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/pkg/types"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Драйверы хранилища станций
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMongo    = "mongo"
	StorageDriverMemory   = "memory"
)

// Config конфигурация сервиса
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Logs        LogsConfig        `toml:"logs"`
	Storage     StorageConfig     `toml:"storage"`
	Database    DatabaseConfig    `toml:"database"`
	Mongo       MongoConfig       `toml:"mongo"`
	Booking     BookingConfig     `toml:"booking"`
	Grid        GridConfig        `toml:"grid"`
	Reset       ResetConfig       `toml:"reset"`
	Redis       RedisConfig       `toml:"redis"`
	Events      EventsConfig      `toml:"events"`
	UserService UserServiceConfig `toml:"user_service"`
	Metrics     MetricsConfig     `toml:"metrics"`
	RateLimit   RateLimitConfig   `toml:"rate_limit"`
	CORS        CORSConfig        `toml:"cors"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// StorageConfig выбор хранилища станций
type StorageConfig struct {
	Driver     string `toml:"driver"`      // postgres | mongo | memory
	TimeoutSec int    `toml:"timeout_sec"` // таймаут одного обращения к хранилищу
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// BookingConfig параметры бронирования
type BookingConfig struct {
	SlotMode       string `toml:"slot_mode"` // free_form | fixed_grid
	MaxAttempts    int    `toml:"max_attempts"`
	RetryBackoffMs int    `toml:"retry_backoff_ms"`
	TimeZone       string `toml:"timezone"` // IANA, например "Europe/Moscow"; пусто - Local
}

// GridConfig дневная сетка для режима fixed_grid
type GridConfig struct {
	OpenTime            string `toml:"open_time"`
	CloseTime           string `toml:"close_time"`
	SlotDurationMinutes int    `toml:"slot_duration_minutes"`
}

// ResetConfig ежедневный сброс слотов
type ResetConfig struct {
	Enabled    bool   `toml:"enabled"`
	Schedule   string `toml:"schedule"` // cron-выражение
	TimeoutSec int    `toml:"timeout_sec"`
	LockKey    string `toml:"lock_key"`
	LockTTLSec int    `toml:"lock_ttl_sec"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// EventsConfig публикация событий в RabbitMQ
type EventsConfig struct {
	Enabled  bool   `toml:"enabled"`
	AMQPURL  string `toml:"amqp_url"`
	Exchange string `toml:"exchange"`
}

// UserServiceConfig проверка пользователей; пустой URL отключает проверку
type UserServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// RateLimitConfig ограничение запросов на клиента (token bucket)
type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Load читает .env (если есть), затем TOML-файл, применяет значения по умолчанию,
// переопределения из окружения и проверяет результат
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverPostgres
	}
	if c.Storage.TimeoutSec == 0 {
		c.Storage.TimeoutSec = domain.DefaultStorageTimeoutSec
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "charging"
	}
	if c.Booking.SlotMode == "" {
		c.Booking.SlotMode = string(domain.DefaultSlotMode)
	}
	if c.Booking.MaxAttempts == 0 {
		c.Booking.MaxAttempts = domain.DefaultMaxAttempts
	}
	if c.Booking.RetryBackoffMs == 0 {
		c.Booking.RetryBackoffMs = 10
	}
	if c.Grid.OpenTime == "" {
		c.Grid.OpenTime = domain.DefaultGridOpenTime
	}
	if c.Grid.CloseTime == "" {
		c.Grid.CloseTime = domain.DefaultGridCloseTime
	}
	if c.Grid.SlotDurationMinutes == 0 {
		c.Grid.SlotDurationMinutes = domain.DefaultSlotDurationMinutes
	}
	if c.Reset.Schedule == "" {
		c.Reset.Schedule = domain.DefaultResetSchedule
	}
	if c.Reset.TimeoutSec == 0 {
		c.Reset.TimeoutSec = 600
	}
	if c.Reset.LockKey == "" {
		c.Reset.LockKey = "charging:reset-slots"
	}
	if c.Reset.LockTTLSec == 0 {
		c.Reset.LockTTLSec = c.Reset.TimeoutSec
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Events.Exchange == "" {
		c.Events.Exchange = "charging.events"
	}
	if c.UserService.Timeout == 0 {
		c.UserService.Timeout = 5
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "charging_service"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 20
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 40
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
}

// applyEnv секреты и порт можно переопределить переменными окружения
func (c *Config) applyEnv() error {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("AMQP_URL"); v != "" {
		c.Events.AMQPURL = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: HTTP_PORT=%q is not a number", ErrInvalidConfig, v)
		}
		c.Server.HTTPPort = port
	}
	return nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, fmt.Sprintf("server.http_port %d is out of range", c.Server.HTTPPort))
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			problems = append(problems, "database.host and database.dbname are required for postgres storage")
		}
	case StorageDriverMongo:
		if c.Mongo.URI == "" {
			problems = append(problems, "mongo.uri is required for mongo storage")
		}
	case StorageDriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("unknown storage.driver %q", c.Storage.Driver))
	}

	if c.Storage.TimeoutSec < 0 {
		problems = append(problems, "storage.timeout_sec must be positive")
	}

	mode, err := domain.ParseSlotMode(c.Booking.SlotMode)
	if err != nil {
		problems = append(problems, "booking.slot_mode: "+err.Error())
	}
	if c.Booking.MaxAttempts < 1 {
		problems = append(problems, "booking.max_attempts must be at least 1")
	}
	if _, err := c.Location(); err != nil {
		problems = append(problems, "booking.timezone: "+err.Error())
	}

	if mode == domain.SlotModeFixedGrid {
		if _, err := c.GridTemplate(); err != nil {
			problems = append(problems, "grid: "+err.Error())
		}
	}

	if c.Events.Enabled && c.Events.AMQPURL == "" {
		problems = append(problems, "events.amqp_url is required when events are enabled")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		problems = append(problems, "rate_limit.rps and rate_limit.burst must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Location часовой пояс сетки и ежедневного сброса
func (c *Config) Location() (*time.Location, error) {
	if c.Booking.TimeZone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Booking.TimeZone)
}

// GridTemplate сетка слотов из конфигурации
func (c *Config) GridTemplate() (domain.GridTemplate, error) {
	open, err := types.NewTimeStringFromString(c.Grid.OpenTime)
	if err != nil {
		return domain.GridTemplate{}, fmt.Errorf("open_time: %w", err)
	}
	closeTime, err := types.NewTimeStringFromString(c.Grid.CloseTime)
	if err != nil {
		return domain.GridTemplate{}, fmt.Errorf("close_time: %w", err)
	}

	grid := domain.GridTemplate{
		OpenTime:            open,
		CloseTime:           closeTime,
		SlotDurationMinutes: c.Grid.SlotDurationMinutes,
	}
	if err := grid.Validate(); err != nil {
		return domain.GridTemplate{}, err
	}
	return grid, nil
}

func (c *Config) StorageTimeout() time.Duration {
	return time.Duration(c.Storage.TimeoutSec) * time.Second
}

func (c *Config) SlotMode() domain.SlotMode {
	return domain.SlotMode(c.Booking.SlotMode)
}
