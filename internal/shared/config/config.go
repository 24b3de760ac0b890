package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	APIVersion     string
	APIPrefix      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	Database DatabaseConfig
	Redis    RedisConfig
	SeatHold SeatHoldConfig
	Payment  PaymentConfig
	Worker   WorkerConfig
	Kafka    KafkaConfig
	Email    EmailConfig
	JWT      JWTConfig

	LogLevel string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string
}

// SeatHoldConfig bounds the hold lifecycle
type SeatHoldConfig struct {
	TTL          time.Duration // SEAT_HOLD_EXPIRY_MINUTES
	MaxPerHold   int           // SEAT_HOLD_MAX_PER_HOLD
	MaxPerMinute int           // SEAT_HOLD_MAX_PER_MINUTE, per session
}

// PaymentConfig configures the external payment authority. An empty
// ProviderKey switches the checkout flow into mock-succeed mode.
type PaymentConfig struct {
	ProviderKey   string
	WebhookSecret string
}

// WorkerConfig drives the hold expiration loop
type WorkerConfig struct {
	Interval    time.Duration
	BatchSize   int
	WarnBefore  time.Duration // lead time for hold_expiring_soon pushes
	WarnEnabled bool
}

// KafkaConfig holds the confirmation-notification pipeline settings
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
}

// JWTConfig holds the optional bearer-token verification secret
type JWTConfig struct {
	Secret string
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		APIVersion:     getEnv("API_VERSION", "v1"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB

		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "ticketly_db"),
			User:     getEnv("DB_USER", "ticketly_user"),
			Password: getEnv("DB_PASSWORD", "ticketly_password"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},

		SeatHold: SeatHoldConfig{
			TTL:          time.Duration(getIntEnv("SEAT_HOLD_EXPIRY_MINUTES", 10)) * time.Minute,
			MaxPerHold:   getIntEnv("SEAT_HOLD_MAX_PER_HOLD", 10),
			MaxPerMinute: getIntEnv("SEAT_HOLD_MAX_PER_MINUTE", 5),
		},

		Payment: PaymentConfig{
			ProviderKey:   getEnv("PAYMENT_PROVIDER_KEY", ""),
			WebhookSecret: getEnv("PAYMENT_WEBHOOK_SECRET", ""),
		},

		Worker: WorkerConfig{
			Interval:    getDurationEnv("HOLD_EXPIRY_INTERVAL", 60*time.Second),
			BatchSize:   getIntEnv("HOLD_EXPIRY_BATCH_SIZE", 100),
			WarnBefore:  getDurationEnv("HOLD_EXPIRY_WARN_BEFORE", 2*time.Minute),
			WarnEnabled: getBoolEnv("HOLD_EXPIRY_WARN_ENABLED", true),
		},

		Kafka: KafkaConfig{
			Enabled: getBoolEnv("KAFKA_ENABLED", false),
			Brokers: getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_NOTIFICATION_TOPIC", "order-confirmations"),
		},

		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getIntEnv("SMTP_PORT", 587),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("FROM_EMAIL", "noreply@ticketly.io"),
		},

		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},

		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}

	// Build composite values
	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// Validate rejects configurations the process cannot start with.
func (c *Config) Validate() error {
	if c.SeatHold.TTL <= 0 {
		return fmt.Errorf("SEAT_HOLD_EXPIRY_MINUTES must be positive")
	}
	if c.SeatHold.MaxPerHold < 1 {
		return fmt.Errorf("SEAT_HOLD_MAX_PER_HOLD must be at least 1")
	}
	if c.Payment.ProviderKey != "" && c.Payment.WebhookSecret == "" {
		return fmt.Errorf("PAYMENT_WEBHOOK_SECRET is required when PAYMENT_PROVIDER_KEY is set")
	}
	return nil
}

// buildDatabaseDSN builds the database connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

// MockPayments reports whether checkout should run in mock-succeed mode.
func (c *Config) MockPayments() bool {
	return c.Payment.ProviderKey == ""
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBasePath returns the API base path
func (c *Config) GetAPIBasePath() string {
	return c.APIPrefix + "/" + c.APIVersion
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
