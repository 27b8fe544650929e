package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config конфигурация сервиса
type Config struct {
	Server           ServerConfig      `toml:"server"`
	Database         DatabaseConfig    `toml:"database"`
	Logs             LogsConfig        `toml:"logs"`
	Metrics          MetricsConfig     `toml:"metrics"`
	Tracing          TracingConfig     `toml:"tracing"`
	Redis            RedisConfig       `toml:"redis"`
	BusinessService  IntegrationConfig `toml:"business_service"`
	AppointmentStore IntegrationConfig `toml:"appointment_store"`
	Engine           EngineConfig      `toml:"engine"`
	RateLimit        RateLimitConfig   `toml:"rate_limit"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	RunMigrations   bool   `toml:"run_migrations"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig параметры логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig параметры prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// TracingConfig параметры OpenTelemetry
type TracingConfig struct {
	Enabled      bool    `toml:"enabled"`
	OTLPEndpoint string  `toml:"otlp_endpoint"`
	SampleRatio  float64 `toml:"sample_ratio"`
}

// RedisConfig кэш снимков бизнеса
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Address  string `toml:"address"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	CacheTTL int    `toml:"cache_ttl"` // секунды
}

// IntegrationConfig внешний HTTP сервис (таймаут в секундах)
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// EngineConfig параметры расчёта слотов
type EngineConfig struct {
	Timezone                      string `toml:"timezone"`
	SlotGranularityMinutes        int    `toml:"slot_granularity_minutes"`
	FallbackOpenTime              string `toml:"fallback_open_time"`
	FallbackCloseTime             string `toml:"fallback_close_time"`
	DefaultCloseTime              string `toml:"default_close_time"`
	DefaultServiceDurationMinutes int    `toml:"default_service_duration_minutes"`
}

// RateLimitConfig ограничение частоты запросов к публичным эндпоинтам
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// Load читает .env (если есть), затем TOML-файл. Значения вида ${VAR} подставляются из окружения.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := &Config{}
	if _, err := toml.Decode(os.ExpandEnv(string(raw)), cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет значения, для которых нет разумного значения по умолчанию
func (c *Config) Validate() error {
	if c.BusinessService.URL == "" {
		return errors.New("config: business_service.url is required")
	}
	if c.AppointmentStore.URL == "" {
		return errors.New("config: appointment_store.url is required")
	}
	if c.Engine.SlotGranularityMinutes <= 0 || 60%c.Engine.SlotGranularityMinutes != 0 {
		return fmt.Errorf("config: engine.slot_granularity_minutes must divide 60, got %d",
			c.Engine.SlotGranularityMinutes)
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond <= 0 {
		return errors.New("config: rate_limit.requests_per_second must be positive")
	}
	return nil
}

func (c *Config) applyDefaults() {
	setInt(&c.Server.HTTPPort, 8080)
	setInt(&c.Server.ReadTimeout, 10)
	setInt(&c.Server.WriteTimeout, 10)
	setInt(&c.Server.IdleTimeout, 60)
	setInt(&c.Server.ShutdownTimeout, 15)

	setString(&c.Database.Host, "localhost")
	setInt(&c.Database.Port, 5432)
	setString(&c.Database.SSLMode, "disable")
	setInt(&c.Database.MaxOpenConns, 25)
	setInt(&c.Database.MaxIdleConns, 5)
	setInt(&c.Database.ConnMaxLifetime, 300)

	setString(&c.Logs.Level, "info")

	setString(&c.Metrics.Path, "/metrics")
	setString(&c.Metrics.ServiceName, "smc-availability-service")

	setString(&c.Tracing.OTLPEndpoint, "localhost:4317")
	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = 1
	}

	setString(&c.Redis.Address, "localhost:6379")
	setInt(&c.Redis.CacheTTL, 60)

	setInt(&c.BusinessService.Timeout, 5)
	setInt(&c.AppointmentStore.Timeout, 5)

	setString(&c.Engine.Timezone, "Europe/Istanbul")
	setInt(&c.Engine.SlotGranularityMinutes, 15)
	setString(&c.Engine.FallbackOpenTime, "09:00")
	setString(&c.Engine.FallbackCloseTime, "18:00")
	setString(&c.Engine.DefaultCloseTime, "18:00")
	setInt(&c.Engine.DefaultServiceDurationMinutes, 30)

	setInt(&c.RateLimit.Burst, 20)
	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 10
	}
}

func setInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}

func setString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}
