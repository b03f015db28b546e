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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	authHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/auth"
	businessesHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/businesses"
	createBookingHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/delete_booking"
	deleteBookingSettingsHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/delete_booking_settings"
	employeesHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/employees"
	exportBookingsHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/export_bookings"
	getAvailableSlotsHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/get_booking"
	getBookingSettingsHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/get_booking_settings"
	healthHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/health"
	listBookingsHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/list_bookings"
	pagesHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/pages"
	schedulesHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/schedules"
	servicesHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/services"
	updateBookingSettingsHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/update_booking_settings"
	updateBookingStatusHandler "github.com/m04kA/SMC-BookingEngine/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/availability"
	"github.com/m04kA/SMC-BookingEngine/internal/config"
	"github.com/m04kA/SMC-BookingEngine/internal/conflict"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/infra/export"
	"github.com/m04kA/SMC-BookingEngine/internal/infra/outbox"
	bookingRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/booking"
	businessRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/catalog"
	employeeRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/employee"
	idempotencyRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/idempotency"
	outboxRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/outbox"
	pageRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/page"
	scheduleRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/schedule"
	settingsRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/settings"
	userRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/user"
	"github.com/m04kA/SMC-BookingEngine/internal/service/access"
	accountsService "github.com/m04kA/SMC-BookingEngine/internal/service/accounts"
	bookingsService "github.com/m04kA/SMC-BookingEngine/internal/service/bookings"
	businessesService "github.com/m04kA/SMC-BookingEngine/internal/service/businesses"
	catalogService "github.com/m04kA/SMC-BookingEngine/internal/service/catalog"
	employeesService "github.com/m04kA/SMC-BookingEngine/internal/service/employees"
	pagesService "github.com/m04kA/SMC-BookingEngine/internal/service/pages"
	schedulesService "github.com/m04kA/SMC-BookingEngine/internal/service/schedules"
	settingsService "github.com/m04kA/SMC-BookingEngine/internal/service/settings"
	createBookingUC "github.com/m04kA/SMC-BookingEngine/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-BookingEngine/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BookingEngine/pkg/auth"
	"github.com/m04kA/SMC-BookingEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
	"github.com/m04kA/SMC-BookingEngine/pkg/metrics"
	"github.com/m04kA/SMC-BookingEngine/pkg/tracing"
	"github.com/m04kA/SMC-BookingEngine/pkg/txmanager"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logger
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-BookingEngine...")
	log.Info("Configuration loaded from %s", configPath)

	// Booking policy derived from config; Validate already accepted these values
	location := cfg.Booking.Location()
	scope, err := conflict.ParseScope(cfg.Booking.ConflictScope)
	if err != nil {
		log.Fatal("Invalid conflict scope: %v", err)
	}
	defaultStatus, err := domain.ParseBookingStatus(cfg.Booking.DefaultStatus)
	if err != nil {
		log.Fatal("Invalid default booking status: %v", err)
	}
	defaults := availability.Defaults{
		MinBookingNoticeMinutes: cfg.Booking.MinBookingNoticeMinutes,
		AdvanceBookingDays:      cfg.Booking.AdvanceBookingDays,
	}

	// Tracing
	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Metrics.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to initialize tracing: %v", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.Endpoint)
	}

	// Metrics (optional); a nil collector is accepted everywhere downstream
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Database
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Every statement goes through the wrapper so the transaction manager and the
	// repositories share one executor; pool stats are exported only with metrics on.
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txManager := txmanager.NewTransactionManager(
		wrappedDB,
		txmanager.WithSerializableAttempts(cfg.Booking.SerializableAttempts),
	)

	// Repositories
	var (
		bookingRepository     = bookingRepo.NewRepository(wrappedDB)
		businessRepository    = businessRepo.NewRepository(wrappedDB)
		catalogRepository     = catalogRepo.NewRepository(wrappedDB)
		employeeRepository    = employeeRepo.NewRepository(wrappedDB)
		idempotencyRepository = idempotencyRepo.NewRepository(wrappedDB)
		outboxRepository      = outboxRepo.NewRepository(wrappedDB)
		pageRepository        = pageRepo.NewRepository(wrappedDB)
		scheduleRepository    = scheduleRepo.NewRepository(wrappedDB)
		settingsRepository    = settingsRepo.NewRepository(wrappedDB)
		userRepository        = userRepo.NewRepository(wrappedDB)
	)

	// Redis is optional: without it rate limiting stays in process
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		log.Info("Redis client initialized (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)
	}

	// Services
	signer := auth.NewSigner(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	guard := access.NewGuard(businessRepository, log)

	accountSvc := accountsService.NewService(userRepository, signer, log)
	businessSvc := businessesService.NewService(businessRepository, guard, log)
	catalogSvc := catalogService.NewService(
		catalogRepository,
		bookingRepository,
		txManager,
		guard,
		&createBookingUC.RealTimeProvider{},
		log,
	)
	employeeSvc := employeesService.NewService(employeeRepository, guard, log)
	scheduleSvc := schedulesService.NewService(scheduleRepository, employeeRepository, guard, log)
	pageSvc := pagesService.NewService(pageRepository, txManager, guard, log)
	settingsSvc := settingsService.NewService(settingsRepository, catalogRepository, guard, defaults, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		guard,
		export.NewBookingsWriter(),
		location,
		log,
	)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		businessRepository,
		catalogRepository,
		employeeRepository,
		scheduleRepository,
		settingsRepository,
		bookingRepository,
		idempotencyRepository,
		outboxRepository,
		txManager,
		metricsCollector,
		createBookingUC.Policy{
			Location:              location,
			Scope:                 scope,
			DefaultStatus:         defaultStatus,
			Defaults:              defaults,
			TransientRetryBackoff: cfg.Booking.TransientRetryBackoff(),
		},
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		businessRepository,
		catalogRepository,
		employeeRepository,
		scheduleRepository,
		settingsRepository,
		bookingRepository,
		getAvailableSlotsUC.Policy{
			Location:              location,
			Scope:                 scope,
			Defaults:              defaults,
			TransientRetryBackoff: cfg.Booking.TransientRetryBackoff(),
		},
		log,
	)

	// Outbox relay: kafka, then webhook, then log
	var sink outbox.Sink
	switch {
	case len(cfg.Outbox.KafkaBrokers) > 0:
		kafkaSink := outbox.NewKafkaSink(cfg.Outbox.KafkaBrokers, cfg.Outbox.KafkaTopic)
		defer kafkaSink.Close()
		sink = kafkaSink
	case cfg.Outbox.WebhookURL != "":
		sink = outbox.NewWebhookSink(cfg.Outbox.WebhookURL, time.Duration(cfg.Outbox.WebhookTimeout)*time.Second)
	default:
		sink = outbox.NewLogSink(log)
	}

	relayCtx, stopRelay := context.WithCancel(context.Background())
	relayDone := make(chan struct{})
	if cfg.Outbox.Enabled {
		relay := outbox.NewRelay(
			outboxRepository,
			txManager,
			sink,
			outbox.RelayConfig{
				PollInterval:    cfg.Outbox.PollInterval(),
				BatchSize:       cfg.Outbox.BatchSize,
				MaxAttempts:     cfg.Outbox.MaxAttempts,
				RetryBackoff:    cfg.Outbox.RetryBackoff(),
				MaxRetryBackoff: cfg.Outbox.MaxRetryBackoff(),
			},
			metricsCollector,
			log,
		)
		go func() {
			defer close(relayDone)
			relay.Run(relayCtx)
		}()
		log.Info("Outbox relay started (sink=%s, interval=%s)", sink.Name(), cfg.Outbox.PollInterval())
	} else {
		close(relayDone)
	}

	// Handlers
	accounts := authHandler.NewHandler(accountSvc, log)
	businesses := businessesHandler.NewHandler(businessSvc, log)
	services := servicesHandler.NewHandler(catalogSvc, log)
	employees := employeesHandler.NewHandler(employeeSvc, log)
	schedules := schedulesHandler.NewHandler(scheduleSvc, log)
	pages := pagesHandler.NewHandler(pageSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, location, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	exportBookings := exportBookingsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	getBookingSettings := getBookingSettingsHandler.NewHandler(settingsSvc, log)
	updateBookingSettings := updateBookingSettingsHandler.NewHandler(settingsSvc, log)
	deleteBookingSettings := deleteBookingSettingsHandler.NewHandler(settingsSvc, log)

	checks := map[string]healthHandler.Pinger{"postgres": wrappedDB}
	if rdb != nil {
		checks["redis"] = healthHandler.PingerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	health := healthHandler.NewHandler(checks, log)

	// Rate limiter for the anonymous write and search endpoints
	var limiter middleware.Limiter
	if rdb != nil {
		limiter = middleware.NewRedisLimiter(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window(), cfg.RateLimit.Prefix)
	} else {
		limiter = middleware.NewLocalLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window())
	}
	limited := func(h http.HandlerFunc) http.Handler {
		if !cfg.RateLimit.Enabled {
			return h
		}
		retryAfter := time.Duration(cfg.Booking.RetryAfterSeconds) * time.Second
		return middleware.RateLimit(limiter, retryAfter, cfg.RateLimit.FailOpen, metricsCollector, log)(h)
	}
	if cfg.RateLimit.Enabled {
		log.Info("Rate limiting enabled (limiter=%s, limit=%d per %s)", limiter.Name(), cfg.RateLimit.Limit, cfg.RateLimit.Window())
	}

	// Router
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log.Zerolog()))
	r.Use(middleware.Recover(log.Zerolog()))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	r.HandleFunc("/healthz", health.Live).Methods(http.MethodGet)
	r.HandleFunc("/readyz", health.Ready).Methods(http.MethodGet)

	r.HandleFunc("/register", accounts.Register).Methods(http.MethodPost)
	r.Handle("/login", limited(accounts.Login)).Methods(http.MethodPost)

	// --- Booking flow ---
	r.Handle("/businesses/{id}/availability", limited(getAvailableSlots.Handle)).Methods(http.MethodGet)
	r.Handle("/bookings", limited(createBooking.Handle)).Methods(http.MethodPost)

	// --- Public storefront ---
	r.HandleFunc("/businesses/slug/{slug}", businesses.GetBySlug).Methods(http.MethodGet)
	r.HandleFunc("/businesses/{id}/services", services.List).Methods(http.MethodGet)
	r.HandleFunc("/businesses/{id}/services/{serviceId}", services.Get).Methods(http.MethodGet)
	r.HandleFunc("/businesses/{id}/employees", employees.ListPublic).Methods(http.MethodGet)
	r.HandleFunc("/businesses/{id}/page", pages.Get).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (Authorization: Bearer <token>)
	// ============================================================

	protected := r.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(signer))

	protected.HandleFunc("/user", accounts.Me).Methods(http.MethodGet)

	// --- Businesses ---
	protected.HandleFunc("/businesses", businesses.Create).Methods(http.MethodPost)
	protected.HandleFunc("/businesses", businesses.List).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{id}", businesses.Get).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{id}", businesses.Update).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{id}", businesses.Delete).Methods(http.MethodDelete)

	// --- Catalog ---
	protected.HandleFunc("/businesses/{id}/services", services.Create).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{id}/services/{serviceId}", services.Update).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{id}/services/{serviceId}", services.Delete).Methods(http.MethodDelete)

	// --- Staff and working hours ---
	protected.HandleFunc("/businesses/{id}/employees/admin", employees.List).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{id}/employees", employees.Create).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{id}/employees/{employeeId}", employees.Update).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{id}/employees/{employeeId}", employees.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/businesses/{id}/schedules", schedules.List).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{id}/schedules", schedules.Create).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{id}/schedules/{scheduleId}", schedules.Delete).Methods(http.MethodDelete)

	// --- Page builder ---
	protected.HandleFunc("/businesses/{id}/page/blocks", pages.Save).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{id}/page/blocks/{blockId}", pages.DeleteBlock).Methods(http.MethodDelete)

	// --- Booking administration ---
	protected.HandleFunc("/businesses/{id}/bookings", listBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{id}/bookings/export", exportBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{id}/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{id}/bookings/{bookingId}", updateBookingStatus.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{id}/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)

	// --- Booking settings ---
	protected.HandleFunc("/businesses/{id}/booking-settings", getBookingSettings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{id}/booking-settings", updateBookingSettings.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{id}/booking-settings", deleteBookingSettings.Handle).Methods(http.MethodDelete)

	// HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, cfg.Metrics.ServiceName),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Wait for a termination signal
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

	// Let the relay finish its current batch
	stopRelay()
	select {
	case <-relayDone:
	case <-shutdownCtx.Done():
		log.Warn("Outbox relay did not stop before the shutdown deadline")
	}

	close(stopMetricsCh)

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}
