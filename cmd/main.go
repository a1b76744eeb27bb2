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

	addBreakHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/add_break"
	addDayOffHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/add_day_off"
	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	cancelPaymentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_payment"
	confirmPaymentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/confirm_payment"
	createAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	createMasterHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_master"
	createServiceHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_service"
	getFreeSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_free_slots"
	getMasterAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_master_appointments"
	getUserAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_user_appointments"
	listMastersHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_masters"
	listServicesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_services"
	updateUserPhoneHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_user_phone"
	updateWorkingHoursHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_working_hours"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	auditRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/audit"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	paymentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/payment"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	userRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/user"
	"github.com/m04kA/SMC-AppointmentService/internal/payments"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	catalogService "github.com/m04kA/SMC-AppointmentService/internal/service/catalog"
	scheduleService "github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	usersService "github.com/m04kA/SMC-AppointmentService/internal/service/users"
	confirmPaymentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_payment"
	createAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	getFreeSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_free_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
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

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	// Инициализируем менеджер транзакций и репозитории
	txManager := txmanager.New(db)

	appointmentRepository := appointmentRepo.NewRepository(db)
	paymentRepository := paymentRepo.NewRepository(db)
	scheduleRepository := scheduleRepo.NewRepository(db)
	catalogRepository := catalogRepo.NewRepository(db)
	userRepository := userRepo.NewRepository(db)
	auditRepository := auditRepo.NewRepository(db)

	// Регистрируем платежных провайдеров
	providerRegistry := payments.NewRegistry()
	providerRegistry.Register(domain.ProviderDummy, payments.NewDummyProvider())
	log.Info("Payment provider configured: %s", cfg.Payments.Provider)

	scheduleSettings := cfg.ScheduleSettings()
	log.Info("Schedule settings: timezone=%s, work hours %02d:00-%02d:00, slot=%dmin",
		cfg.Schedule.Timezone, cfg.Schedule.WorkStartHour, cfg.Schedule.WorkEndHour, cfg.Schedule.SlotMinutes)

	// Инициализируем use cases
	getFreeSlotsUseCase := getFreeSlotsUC.NewUseCase(
		catalogRepository,
		scheduleRepository,
		appointmentRepository,
		scheduleSettings,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		catalogRepository,
		userRepository,
		appointmentRepository,
		paymentRepository,
		providerRegistry,
		txManager,
		createAppointmentUC.Settings{
			Provider:        domain.PaymentProviderName(cfg.Payments.Provider),
			Currency:        cfg.Payments.Currency,
			DummyPayURLBase: cfg.Payments.DummyPayURLBase,
		},
		log,
	)

	confirmPaymentUseCase := confirmPaymentUC.NewUseCase(
		paymentRepository,
		appointmentRepository,
		txManager,
		log,
	)

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		paymentRepository,
		catalogRepository,
		auditRepository,
		txManager,
		scheduleSettings.Location,
		log,
	)

	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		catalogRepository,
		auditRepository,
		txManager,
		log,
	)

	catalogSvc := catalogService.NewService(
		catalogRepository,
		userRepository,
		auditRepository,
		txManager,
		log,
	)

	usersSvc := usersService.NewService(userRepository, log)

	// Инициализируем handlers
	getFreeSlots := getFreeSlotsHandler.NewHandler(getFreeSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, scheduleSettings.Location, log)
	confirmPayment := confirmPaymentHandler.NewHandler(confirmPaymentUseCase, log)
	cancelPayment := cancelPaymentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	getUserAppointments := getUserAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getMasterAppointments := getMasterAppointmentsHandler.NewHandler(appointmentsSvc, log)
	listMasters := listMastersHandler.NewHandler(catalogSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	createMaster := createMasterHandler.NewHandler(catalogSvc, log)
	createService := createServiceHandler.NewHandler(catalogSvc, log)
	updateWorkingHours := updateWorkingHoursHandler.NewHandler(scheduleSvc, log)
	addBreak := addBreakHandler.NewHandler(scheduleSvc, log)
	addDayOff := addDayOffHandler.NewHandler(scheduleSvc, log)
	updateUserPhone := updateUserPhoneHandler.NewHandler(usersSvc, log)

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

	// Каталог мастеров и услуг
	api.HandleFunc("/masters", listMasters.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)

	// Свободные слоты мастера на дату
	api.HandleFunc("/masters/{masterId}/free-slots", getFreeSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи (вместе с платежом)
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Будущие записи пользователя
	protected.HandleFunc("/users/me/appointments", getUserAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/me/phone", updateUserPhone.Handle).Methods(http.MethodPatch)

	// --- Платежи ---
	protected.HandleFunc("/payments/{paymentId}/confirm", confirmPayment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/payments/{paymentId}/cancel", cancelPayment.Handle).Methods(http.MethodPost)

	// ============================================================
	// STAFF ROUTES (мастер или администратор)
	// ============================================================

	staff := protected.PathPrefix("").Subrouter()
	staff.Use(middleware.RequireRole(userRepository, log, domain.RoleMaster, domain.RoleAdmin))

	// Дневное расписание мастера
	staff.HandleFunc("/masters/{masterId}/appointments", getMasterAppointments.Handle).Methods(http.MethodGet)

	// Управление расписанием мастера
	staff.HandleFunc("/masters/{masterId}/working-hours", updateWorkingHours.Handle).Methods(http.MethodPut)
	staff.HandleFunc("/masters/{masterId}/breaks", addBreak.Handle).Methods(http.MethodPost)
	staff.HandleFunc("/masters/{masterId}/days-off", addDayOff.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (только администратор)
	// ============================================================

	admin := protected.PathPrefix("").Subrouter()
	admin.Use(middleware.RequireRole(userRepository, log, domain.RoleAdmin))

	admin.HandleFunc("/masters", createMaster.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/services", createService.Handle).Methods(http.MethodPost)

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
