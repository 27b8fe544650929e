package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	createAppointmentHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/create_appointment"
	deleteOverrideHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/delete_business_override"
	getOverridesHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_business_overrides"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_available_slots"
	upsertOverrideHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/upsert_business_override"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/migrations"
	overrideRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/override"
	appointmentStoreClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/appointmentstore"
	businessServiceClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/businessservice"
	overridesService "github.com/m04kA/SMC-AvailabilityService/internal/service/overrides"
	createAppointmentUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/tracing"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

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

	log.Info("Starting SMC-AvailabilityService...")
	log.Info("Configuration loaded from config.toml")

	// Трассировка (при выключенной остаётся noop-провайдер)
	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to initialize tracing: %v", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.OTLPEndpoint)
	}

	// Инициализируем метрики (если включены). nil *Metrics безопасен для usecase и клиентов.
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Миграции таблицы исключений (таблицей записей владеет хранилище записей)
	if cfg.Database.RunMigrations {
		migrator, err := migrations.NewMigrator(db, log)
		if err != nil {
			log.Fatal("Failed to initialize migrator: %v", err)
		}
		if err := migrator.Run(context.Background()); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	// Инициализируем репозитории (с метриками или без)
	var dbExec dbmetrics.DBExecutor = db
	if cfg.Metrics.Enabled {
		dbExec = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)
		log.Info("Database metrics collection started")
	}
	appointmentRepository := appointmentRepo.NewRepository(dbExec)
	overrideRepository := overrideRepo.NewRepository(dbExec)

	// Инициализируем интеграционных клиентов
	businessClient := businessServiceClient.NewClient(
		cfg.BusinessService.URL,
		time.Duration(cfg.BusinessService.Timeout)*time.Second,
		log,
	)
	businessClient.UseMetrics(metricsCollector)
	businessClient.UseTransport(otelhttp.NewTransport(http.DefaultTransport))

	storeClient := appointmentStoreClient.NewClient(
		cfg.AppointmentStore.URL,
		time.Duration(cfg.AppointmentStore.Timeout)*time.Second,
		log,
	)
	storeClient.UseTransport(otelhttp.NewTransport(http.DefaultTransport))
	log.Info("Integration clients initialized (BusinessService=%s timeout=%ds, AppointmentStore=%s timeout=%ds)",
		cfg.BusinessService.URL, cfg.BusinessService.Timeout, cfg.AppointmentStore.URL, cfg.AppointmentStore.Timeout)

	// Кэш снимков бизнеса в Redis
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			// кэш не критичен: клиент при ошибках Redis идёт напрямую в Business Service
			log.Warn("Redis is unreachable at %s: %v", cfg.Redis.Address, err)
		}
		cancel()

		businessClient.UseRedisCache(redisClient, time.Duration(cfg.Redis.CacheTTL)*time.Second)
		log.Info("Business cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Address, cfg.Redis.CacheTTL)
	}

	// Движок расчёта слотов
	engine := availability.NewEngine(availability.Options{
		GranularityMinutes:            cfg.Engine.SlotGranularityMinutes,
		FallbackOpen:                  types.TimeString(cfg.Engine.FallbackOpenTime),
		FallbackClose:                 types.TimeString(cfg.Engine.FallbackCloseTime),
		DefaultClose:                  types.TimeString(cfg.Engine.DefaultCloseTime),
		DefaultServiceDurationMinutes: cfg.Engine.DefaultServiceDurationMinutes,
	}, log)
	tracker := availability.NewTracker()

	// Инициализируем сервисы
	overrideSvc := overridesService.NewService(
		overrideRepository,
		businessClient,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		overrideRepository,
		businessClient,
		engine,
		tracker,
		metricsCollector,
		cfg.Engine.Timezone,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		getAvailableSlotsUseCase,
		storeClient,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getOverrides := getOverridesHandler.NewHandler(overrideSvc, log)
	upsertOverride := upsertOverrideHandler.NewHandler(overrideSvc, log)
	deleteOverride := deleteOverrideHandler.NewHandler(overrideSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", handlers.Health).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, 10*time.Minute)
		go limiter.RunCleanup(time.Minute, stopMetricsCh)
		public.Use(limiter.Middleware)
		log.Info("Rate limit enabled: %.1f rps, burst %d", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// Доступные слоты на дату
	public.HandleFunc("/businesses/{businessId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Создание записи через хранилище
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// --- Исключения из расписания (для менеджеров) ---
	protected.HandleFunc("/businesses/{businessId}/hours-overrides",
		getOverrides.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/hours-overrides/{date}",
		upsertOverride.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/hours-overrides/{date}",
		deleteOverride.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, "http.server"),
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

	// Останавливаем фоновые задачи (статистика пула, очистка лимитера)
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}
