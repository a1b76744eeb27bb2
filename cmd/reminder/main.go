package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/notify"
	"github.com/m04kA/SMC-AppointmentService/internal/reminder"
	"github.com/m04kA/SMC-AppointmentService/pkg/distlock"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
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

	log.Info("Starting reminder worker...")

	// Подключаемся к базе данных
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

	// Подключаемся к Redis (распределённая блокировка воркера)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to ping redis: %v", err)
	}
	log.Info("Successfully connected to redis (addr=%s)", cfg.Redis.Addr)

	lock := distlock.New(
		redisClient,
		cfg.Reminders.LockKey,
		time.Duration(cfg.Reminders.LeaseSeconds)*time.Second,
	)

	// Инициализируем транспорт уведомлений
	notifier, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken)
	if err != nil {
		log.Fatal("Failed to init telegram notifier: %v", err)
	}
	log.Info("Telegram notifier initialized")

	appointmentRepository := appointmentRepo.NewRepository(db)

	worker := reminder.NewWorker(
		appointmentRepository,
		notifier,
		lock,
		reminder.Config{
			Interval:  time.Duration(cfg.Reminders.IntervalSeconds) * time.Second,
			Tolerance: time.Duration(cfg.Reminders.ToleranceMinutes) * time.Minute,
		},
		log,
	)

	// Останавливаемся по сигналу завершения
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		log.Error("Reminder worker exited with error: %v", err)
	}

	log.Info("Reminder worker stopped gracefully")
}
