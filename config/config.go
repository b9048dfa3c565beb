package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port     string
	Env      string
	LogDir   string
	Frontend string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	JWTSecret     string
	SessionSecret string
	AdminUsername string
	AdminPassword string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	RazorpayKey     string
	RazorpaySecret  string
	PaymentCurrency string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	RedisAddr          string
	CacheTTL           time.Duration
	RateLimitPerMinute int

	KafkaBrokers []string
	KafkaTopic   string

	OutboxPollInterval time.Duration
	OutboxMaxAttempts  int
}

// AppConfig is the configuration loaded at startup.
var AppConfig *Config

// LoadConfig reads .env (when present) and the environment into AppConfig.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{
		Port:     getenv("PORT", "8080"),
		Env:      getenv("ENV", "development"),
		LogDir:   getenv("LOG_DIR", "logs"),
		Frontend: getenv("FRONTEND_URL", "http://localhost:5173"),

		DBDriver:   getenv("DB_DRIVER", "postgres"),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getenv("DB_NAME", "nocturnelux"),
		SQLitePath: getenv("SQLITE_PATH", "nocturnelux.db"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionSecret: getenv("SESSION_SECRET", os.Getenv("JWT_SECRET")),
		AdminUsername: getenv("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  getenv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),

		RazorpayKey:     os.Getenv("RAZORPAY_KEY"),
		RazorpaySecret:  os.Getenv("RAZORPAY_SECRET"),
		PaymentCurrency: getenv("PAYMENT_CURRENCY", "INR"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getenvInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getenv("SMTP_FROM", "NocturneLux <noreply@nocturnelux.com>"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		RedisAddr:          os.Getenv("REDIS_ADDR"),
		CacheTTL:           getenvDuration("CACHE_TTL", 5*time.Minute),
		RateLimitPerMinute: getenvInt("RATE_LIMIT_PER_MINUTE", 30),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getenv("KAFKA_TOPIC", "nocturnelux.orders"),

		OutboxPollInterval: getenvDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		OutboxMaxAttempts:  getenvInt("OUTBOX_MAX_ATTEMPTS", 8),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	AppConfig = cfg
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
