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

	acquireLockHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/acquire_lock"
	cancelBookingHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_booking"
	createBulkBookingHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_bulk_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_booking"
	getCustomerCapacityHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_customer_capacity"
	getTenantBookingsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_tenant_bookings"
	getUserBookingsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_user_bookings"
	releaseLockHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/release_lock"
	validateLockHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/validate_lock"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/config"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	lockRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/lock"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
	subscriptionRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/subscription"
	catalogServiceClient "github.com/m04kA/SMC-ReservationService/internal/integrations/catalogservice"
	bookingsService "github.com/m04kA/SMC-ReservationService/internal/service/bookings"
	capacityService "github.com/m04kA/SMC-ReservationService/internal/service/capacity"
	acquireLockUC "github.com/m04kA/SMC-ReservationService/internal/usecase/acquire_lock"
	createBookingUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_booking"
	createBulkBookingUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_bulk_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_slots"
	releaseLockUC "github.com/m04kA/SMC-ReservationService/internal/usecase/release_lock"
	validateLockUC "github.com/m04kA/SMC-ReservationService/internal/usecase/validate_lock"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
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

	log.Info("Starting SMC-ReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем интеграционного клиента
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (CatalogService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		slotRepository         *slotRepo.Repository
		lockRepository         *lockRepo.Repository
		subscriptionRepository *subscriptionRepo.Repository
		bookingRepository      *bookingRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		slotRepository = slotRepo.NewRepository(wrappedDB)
		lockRepository = lockRepo.NewRepository(wrappedDB)
		subscriptionRepository = subscriptionRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		slotRepository = slotRepo.NewRepository(db)
		lockRepository = lockRepo.NewRepository(db)
		subscriptionRepository = subscriptionRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		slotRepository,
		subscriptionRepository,
		catalogClient,
		txMgr,
		log,
	)
	capacitySvc := capacityService.NewService(
		subscriptionRepository,
		log,
	)

	// Инициализируем use cases
	acquireLockUseCase := acquireLockUC.NewUseCase(
		slotRepository,
		lockRepository,
		txMgr,
		log,
	)
	validateLockUseCase := validateLockUC.NewUseCase(lockRepository, log)
	releaseLockUseCase := releaseLockUC.NewUseCase(lockRepository, log)
	createBookingUseCase := createBookingUC.NewUseCase(
		slotRepository,
		lockRepository,
		subscriptionRepository,
		bookingRepository,
		catalogClient,
		txMgr,
		log,
	)
	createBulkBookingUseCase := createBulkBookingUC.NewUseCase(
		slotRepository,
		lockRepository,
		subscriptionRepository,
		bookingRepository,
		catalogClient,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		slotRepository,
		lockRepository,
		log,
	)

	// Инициализируем handlers
	acquireLock := acquireLockHandler.NewHandler(acquireLockUseCase, log)
	validateLock := validateLockHandler.NewHandler(validateLockUseCase, log)
	releaseLock := releaseLockHandler.NewHandler(releaseLockUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	createBulkBooking := createBulkBookingHandler.NewHandler(createBulkBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getCustomerCapacity := getCustomerCapacityHandler.NewHandler(capacitySvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getTenantBookings := getTenantBookingsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Агрегированные доступные слоты по услуге на дату
	api.HandleFunc("/tenants/{tenantId}/services/{serviceId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Блокировки вместимости ---
	// Захват блокировки на места в слоте
	protected.HandleFunc("/bookings/lock", acquireLock.Handle).Methods(http.MethodPost)

	// Проверка активности блокировки (keepalive-опрос)
	protected.HandleFunc("/bookings/lock/{lockId}/validate", validateLock.Handle).Methods(http.MethodGet)

	// Досрочное освобождение блокировки
	protected.HandleFunc("/bookings/lock/{lockId}/release", releaseLock.Handle).Methods(http.MethodPost)

	// --- Бронирования ---
	// Фиксация бронирования по захваченной блокировке
	protected.HandleFunc("/bookings/create", createBooking.Handle).Methods(http.MethodPost)

	// Атомарная фиксация группы бронирований
	protected.HandleFunc("/bookings/create-bulk", createBulkBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Получение группы бронирований по group ID
	protected.HandleFunc("/bookings/group/{groupId}", getBooking.HandleGroup).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Абонементы ---
	// Остатки покрытия клиента по услуге
	protected.HandleFunc("/customers/{customerId}/services/{serviceId}/capacity",
		getCustomerCapacity.Handle).Methods(http.MethodGet)

	// --- Управление тенантом (для менеджеров) ---
	// Список бронирований тенанта
	protected.HandleFunc("/tenants/{tenantId}/bookings", getTenantBookings.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
