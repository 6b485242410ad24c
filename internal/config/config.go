package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/joho/godotenv"
)

const (
	DefaultHTTPAddr       = ":8080"
	DefaultAutoAssignCron = "0 */15 * * * *"
	DefaultFetchLimit     = 8

	// maxWaitDays окно автоназначения должно укладываться в максимальный диапазон поиска слотов
	maxWaitDays = 91
)

type Config struct {
	DBDSN            string `mapstructure:"DB_DSN"`
	Environment      string `mapstructure:"ENV"`
	LogLevel         string `mapstructure:"LOG_LEVEL"`
	HTTPAddr         string `mapstructure:"HTTP_ADDR"`
	TelegramToken    string `mapstructure:"TELEGRAM_TOKEN"`
	AdminTelegramIDs []int64
	AutoAssignCron   string `mapstructure:"AUTO_ASSIGN_CRON"`

	SlotCapacity          int `mapstructure:"SLOT_CAPACITY"`
	DefaultSessionMinutes int `mapstructure:"DEFAULT_SESSION_MINUTES"`
	FetchConcurrency      int `mapstructure:"FETCH_CONCURRENCY"`
	PriorityWaitDays      model.PriorityPolicy
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	} else {
		log.Println("Loaded configuration from .env file")
	}

	return FromEnv(os.LookupEnv)
}

// FromEnv собирает конфиг из произвольного источника переменных
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		DBDSN:         get("DB_DSN", ""),
		Environment:   get("ENV", "development"),
		LogLevel:      get("LOG_LEVEL", "info"),
		HTTPAddr:      get("HTTP_ADDR", DefaultHTTPAddr),
		TelegramToken: get("TELEGRAM_TOKEN", ""),
		// Пустое значение отключает фоновое автоназначение
		AutoAssignCron: get("AUTO_ASSIGN_CRON", DefaultAutoAssignCron),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = DefaultHTTPAddr
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	var err error
	if cfg.SlotCapacity, err = positiveInt("SLOT_CAPACITY", get("SLOT_CAPACITY", ""), 1); err != nil {
		return nil, err
	}
	if cfg.DefaultSessionMinutes, err = positiveInt("DEFAULT_SESSION_MINUTES", get("DEFAULT_SESSION_MINUTES", ""), model.DefaultSessionDurationMinutes); err != nil {
		return nil, err
	}
	if cfg.DefaultSessionMinutes > model.MinutesPerDay {
		return nil, fmt.Errorf("DEFAULT_SESSION_MINUTES must not exceed %d, got %d", model.MinutesPerDay, cfg.DefaultSessionMinutes)
	}
	if cfg.FetchConcurrency, err = positiveInt("FETCH_CONCURRENCY", get("FETCH_CONCURRENCY", ""), DefaultFetchLimit); err != nil {
		return nil, err
	}

	if cfg.AdminTelegramIDs, err = parseIDs(get("ADMIN_TELEGRAM_IDS", "")); err != nil {
		return nil, err
	}

	if cfg.PriorityWaitDays, err = model.ParsePriorityPolicy(get("PRIORITY_WAIT_DAYS", "")); err != nil {
		return nil, fmt.Errorf("PRIORITY_WAIT_DAYS: %w", err)
	}
	for priority, days := range cfg.PriorityWaitDays {
		if days > maxWaitDays {
			return nil, fmt.Errorf("PRIORITY_WAIT_DAYS: %s window %d exceeds %d days", priority, days, maxWaitDays)
		}
	}

	return cfg, nil
}

// BotEnabled бот запускается только при заданном токене
func (c *Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

func positiveInt(key, raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, raw)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}

func parseIDs(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_TELEGRAM_IDS: invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
