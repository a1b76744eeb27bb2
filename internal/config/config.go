// Package config - загрузка и валидация конфигурации сервиса из TOML
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Config корневая конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Redis     RedisConfig     `toml:"redis"`
	Telegram  TelegramConfig  `toml:"telegram"`
	Schedule  ScheduleConfig  `toml:"schedule"`
	Payments  PaymentsConfig  `toml:"payments"`
	Reminders RemindersConfig `toml:"reminders"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
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

// DSN собирает строку подключения lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// RedisConfig настройки Redis (блокировка воркера напоминаний)
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// TelegramConfig настройки транспорта уведомлений
type TelegramConfig struct {
	BotToken string `toml:"bot_token"`
}

// ScheduleConfig глобальные настройки расписания и слотов
type ScheduleConfig struct {
	Timezone      string `toml:"timezone"`
	WorkStartHour int    `toml:"work_start_hour"`
	WorkEndHour   int    `toml:"work_end_hour"`
	SlotMinutes   int    `toml:"slot_minutes"`
}

// PaymentsConfig настройки платежей
type PaymentsConfig struct {
	Provider string `toml:"provider"`
	Currency string `toml:"currency"`

	// DummyPayURLBase префикс синтетической платежной ссылки dummy-провайдера
	DummyPayURLBase string `toml:"dummy_pay_url_base"`
}

// RemindersConfig настройки воркера напоминаний
type RemindersConfig struct {
	IntervalSeconds  int    `toml:"interval_seconds"`
	LeaseSeconds     int    `toml:"lease_seconds"`
	ToleranceMinutes int    `toml:"tolerance_minutes"`
	LockKey          string `toml:"lock_key"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// Load читает конфигурацию из TOML файла и валидирует её
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Schedule: ScheduleConfig{
			Timezone:      "Europe/Moscow",
			WorkStartHour: domain.DefaultWorkStartHour,
			WorkEndHour:   domain.DefaultWorkEndHour,
			SlotMinutes:   domain.DefaultSlotMinutes,
		},
		Payments: PaymentsConfig{
			Provider:        "dummy",
			Currency:        "RUB",
			DummyPayURLBase: "https://example.com/pay/dummy",
		},
		Reminders: RemindersConfig{
			IntervalSeconds:  10,
			LeaseSeconds:     30,
			ToleranceMinutes: 5,
			LockKey:          "reminders:lock",
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "smc-appointment-service",
		},
	}
}

func (c *Config) validate() error {
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}

	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("config: schedule.timezone %q is not available: %w", c.Schedule.Timezone, err)
	}
	if c.Schedule.WorkStartHour < 0 || c.Schedule.WorkStartHour > 23 {
		return fmt.Errorf("config: schedule.work_start_hour must be 0..23")
	}
	if c.Schedule.WorkEndHour < 1 || c.Schedule.WorkEndHour > 24 {
		return fmt.Errorf("config: schedule.work_end_hour must be 1..24")
	}
	if c.Schedule.WorkEndHour <= c.Schedule.WorkStartHour {
		return fmt.Errorf("config: schedule.work_end_hour must be greater than work_start_hour")
	}
	if c.Schedule.SlotMinutes <= 0 || domain.MinutesPerDay%c.Schedule.SlotMinutes != 0 {
		return fmt.Errorf("config: schedule.slot_minutes must be positive and divide %d", domain.MinutesPerDay)
	}

	if c.Payments.Currency == "" {
		return fmt.Errorf("config: payments.currency is required")
	}

	if c.Reminders.IntervalSeconds <= 0 {
		return fmt.Errorf("config: reminders.interval_seconds must be positive")
	}
	if c.Reminders.LeaseSeconds <= 0 {
		return fmt.Errorf("config: reminders.lease_seconds must be positive")
	}
	if c.Reminders.ToleranceMinutes <= 0 {
		return fmt.Errorf("config: reminders.tolerance_minutes must be positive")
	}

	return nil
}

// Location возвращает таймзону расписания (валидирована при загрузке)
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ScheduleSettings собирает доменные настройки расписания
func (c *Config) ScheduleSettings() domain.ScheduleSettings {
	return domain.ScheduleSettings{
		Location:          c.Location(),
		FallbackStartHour: c.Schedule.WorkStartHour,
		FallbackEndHour:   c.Schedule.WorkEndHour,
		SlotMinutes:       c.Schedule.SlotMinutes,
	}
}
