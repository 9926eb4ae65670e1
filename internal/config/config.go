package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Security SecurityConfig
	Report   ReportConfig
}

type ServerConfig struct {
	Port             string
	Host             string
	Environment      string
	BaseURL          string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	ShutdownTimeout  time.Duration
	CORSAllowOrigins []string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Migrations      MigrationConfig
}

// MigrationConfig drives the golang-migrate runner. When AutoMigrate is off
// the schema comes from GORM AutoMigrate instead.
type MigrationConfig struct {
	AutoMigrate   bool
	Path          string
	ReadyRetries  int
	ReadyInterval time.Duration
}

type JWTConfig struct {
	AccessTokenDuration time.Duration
	Secret              []byte
	Issuer              string
	CookieName          string
	AllowCookie         bool
}

type SecurityConfig struct {
	BCryptCost         int
	RateLimitPerSecond int
}

// ReportConfig controls where generated workbooks live and how long they are served.
type ReportConfig struct {
	ExportDir      string
	PublicPath     string
	FileTTL        time.Duration
	SweepSchedule  string
	ErrorLogPath   string
	CurrencySymbol string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Host:            getEnv("SERVER_HOST", "localhost"),
			Environment:     getEnv("APP_ENV", "development"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "budget_user"),
			Password:        getEnv("DB_PASSWORD", "budget_password"),
			Name:            getEnv("DB_NAME", "budget_db"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  getIntEnv("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			Migrations: MigrationConfig{
				AutoMigrate:   getBoolEnv("AUTO_MIGRATE", false),
				Path:          getEnv("DB_MIGRATIONS_PATH", "db/migrations"),
				ReadyRetries:  getIntEnv("DB_READY_RETRIES", 30),
				ReadyInterval: getDurationEnv("DB_READY_INTERVAL", 2*time.Second),
			},
		},
		Security: SecurityConfig{
			BCryptCost:         getIntEnv("BCRYPT_COST", 12),
			RateLimitPerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 5),
		},
		JWT: JWTConfig{
			AccessTokenDuration: getDurationEnv("JWT_ACCESS_TOKEN_DURATION", 24*time.Hour),
			Issuer:              getEnv("JWT_ISSUER", "budget-tracker"),
			CookieName:          getEnv("JWT_COOKIE_NAME", "access_token"),
			AllowCookie:         getBoolEnv("JWT_ALLOW_COOKIE", true),
		},
		Report: ReportConfig{
			ExportDir:      getEnv("REPORT_EXPORT_DIR", "public/files/export"),
			PublicPath:     getEnv("REPORT_PUBLIC_PATH", "/files/export"),
			FileTTL:        getDurationEnv("REPORT_FILE_TTL", 5*time.Minute),
			SweepSchedule:  getEnv("REPORT_SWEEP_SCHEDULE", "@every 1m"),
			ErrorLogPath:   getEnv("REPORT_ERROR_LOG", "logs/error.log"),
			CurrencySymbol: getEnv("REPORT_CURRENCY_SYMBOL", "₹"),
		},
	}

	config.Server.BaseURL = strings.TrimRight(
		getEnv("BASE_URL", fmt.Sprintf("http://%s:%s", config.Server.Host, config.Server.Port)), "/")
	config.Server.CORSAllowOrigins = config.loadCORSAllowOrigins()

	secret, err := config.loadJWTSecret()
	if err != nil {
		log.Fatal("Failed to load JWT secret:", err)
	}
	config.JWT.Secret = secret

	return config
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) IsTesting() bool {
	return c.Server.Environment == "testing"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// loadJWTSecret reads the HMAC signing secret.
// Production requires JWT_SECRET; other environments fall back to a random
// per-process secret, so tokens do not survive a restart.
func (c *Config) loadJWTSecret() ([]byte, error) {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return []byte(secret), nil
	}

	if c.IsProduction() {
		return nil, fmt.Errorf("JWT_SECRET environment variable must be set in production environments")
	}

	log.Println("Development environment: generating random JWT secret (set JWT_SECRET to persist tokens across restarts)")
	return GenerateSecret(32)
}

// loadCORSAllowOrigins retrieves CORS allowed origins from environment or returns default
func (c *Config) loadCORSAllowOrigins() []string {
	corsOrigins := os.Getenv("CORS_ALLOW_ORIGINS")

	if corsOrigins == "" {
		if c.IsProduction() {
			log.Println("WARNING: CORS_ALLOW_ORIGINS not set in production environment, defaulting to '*' (all origins).")
		} else {
			log.Println("INFO: CORS_ALLOW_ORIGINS not set, defaulting to '*' (all origins)")
		}
		return []string{"*"}
	}

	origins := strings.Split(corsOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}

	log.Printf("CORS allowed origins configured: %v", origins)
	return origins
}

// GenerateSecret returns n random bytes hex-encoded.
func GenerateSecret(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}
	return []byte(hex.EncodeToString(buf)), nil
}
