package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/cloud-ru/finsim-go/internal/calculations"
)

// Config содержит конфигурацию сервиса
type Config struct {
	Port            int
	LogLevel        string
	MaxPrincipal    float64
	MaxRate         float64
	MaxTermYears    int
	MaxExtraPayment float64
	MaxShares       float64
	OTELEndpoint    string
	OTELServiceName string

	JWTSecret string

	CountdownTarget   string
	CountdownSchedule string
	Timezone          string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	// Загружаем .env файл, если он существует (игнорируем ошибку)
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnvInt("PORT", 8000),
		LogLevel:          getEnvString("LOG_LEVEL", "INFO"),
		MaxPrincipal:      getEnvFloat("MAX_PRINCIPAL", 1e9),
		MaxRate:           getEnvFloat("MAX_RATE", 200),
		MaxTermYears:      getEnvInt("MAX_TERM_YEARS", 50),
		MaxExtraPayment:   getEnvFloat("MAX_EXTRA_PAYMENT", 1e8),
		MaxShares:         getEnvFloat("MAX_SHARES", 1e9),
		OTELEndpoint:      getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName:   getEnvString("OTEL_SERVICE_NAME", "finsim"),
		JWTSecret:         getEnvString("JWT_SECRET", ""),
		CountdownTarget:   getEnvString("COUNTDOWN_TARGET", ""),
		CountdownSchedule: getEnvString("COUNTDOWN_SCHEDULE", "@every 1m"),
		Timezone:          getEnvString("TIMEZONE", ""),
		SMTPHost:          getEnvString("SMTP_HOST", ""),
		SMTPPort:          getEnvInt("SMTP_PORT", 587),
		SMTPUsername:      getEnvString("SMTP_USERNAME", ""),
		SMTPPassword:      getEnvString("SMTP_PASSWORD", ""),
		SenderEmail:       getEnvString("SENDER_EMAIL", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate проверяет ограничения и формат значений
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT: %d out of range", c.Port))
	}
	if c.MaxPrincipal <= 0 {
		errs = append(errs, errors.New("MAX_PRINCIPAL must be positive"))
	}
	if c.MaxRate <= 0 {
		errs = append(errs, errors.New("MAX_RATE must be positive"))
	}
	if c.MaxTermYears <= 0 {
		errs = append(errs, errors.New("MAX_TERM_YEARS must be positive"))
	}
	if c.MaxExtraPayment <= 0 {
		errs = append(errs, errors.New("MAX_EXTRA_PAYMENT must be positive"))
	}
	if c.MaxShares <= 0 {
		errs = append(errs, errors.New("MAX_SHARES must be positive"))
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
		loc = time.Local
	}
	if c.CountdownTarget != "" {
		if _, ok := calculations.ParseTargetDate(c.CountdownTarget, loc); !ok {
			errs = append(errs, fmt.Errorf("COUNTDOWN_TARGET: cannot parse %q", c.CountdownTarget))
		}
	}
	return errors.Join(errs...)
}

// Location возвращает часовой пояс для разбора дат без смещения
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// MailEnabled сообщает, настроена ли отправка почты
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// SMTPAddr адрес SMTP-сервера в формате host:port
func (c *Config) SMTPAddr() string {
	return fmt.Sprintf("%s:%d", c.SMTPHost, c.SMTPPort)
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
