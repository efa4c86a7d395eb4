package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port    string
	AppEnv  string
	BaseURL string

	DBDriver   string // postgres, mysql, sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenSecret string
	RefreshTokenExpiry time.Duration
	SaltRound          int
	CookieSecure       bool
	CorsOrigin         string

	AdminCommissionPercent int64
	EnrollmentPendingTTL   time.Duration // 0 disables automatic expiry
	EnrollmentExpiryCron   string

	CloudinaryCloudName string
	CloudinaryApiKey    string
	CloudinaryApiSecret string
	CloudinaryBaseURL   string

	SendgridApiKey string
	EmailSender    string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:    getEnv("PORT", "8000"),
		AppEnv:  getEnv("APP_ENV", "production"),
		// public origin prefixed to locally stored upload URLs
		BaseURL: getEnv("BASE_URL", ""),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "edulearn"),

		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET", "defaultSecret"),
		AccessTokenExpiry:  getEnvDuration("ACCESS_TOKEN_EXPIRY", 24*time.Hour),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", "defaultRefreshSecret"),
		RefreshTokenExpiry: getEnvDuration("REFRESH_TOKEN_EXPIRY", 10*24*time.Hour),
		SaltRound:          getEnvInt("SALT_ROUND", 10),
		CookieSecure:       getEnvBool("COOKIE_SECURE", true),
		CorsOrigin:         getEnv("CORS_ORIGIN", "*"),

		AdminCommissionPercent: int64(getEnvInt("ADMIN_COMMISSION_PERCENT", 20)),
		EnrollmentPendingTTL:   getEnvDuration("ENROLLMENT_PENDING_TTL", 7*24*time.Hour),
		EnrollmentExpiryCron:   getEnv("ENROLLMENT_EXPIRY_CRON", "@hourly"),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryApiKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryApiSecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryBaseURL:   getEnv("CLOUDINARY_BASE_URL", "https://api.cloudinary.com"),

		SendgridApiKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "noreply@edulearn.local"),
	}

	// Validate critical configuration
	if AppConfig.AccessTokenSecret == "defaultSecret" {
		log.Println("Warning: Using default ACCESS_TOKEN_SECRET. Update it in your environment.")
	}
	if AppConfig.RefreshTokenSecret == "defaultRefreshSecret" {
		log.Println("Warning: Using default REFRESH_TOKEN_SECRET. Update it in your environment.")
	}
	if AppConfig.AdminCommissionPercent < 0 || AppConfig.AdminCommissionPercent > 100 {
		log.Printf("Warning: ADMIN_COMMISSION_PERCENT %d out of range, falling back to 20", AppConfig.AdminCommissionPercent)
		AppConfig.AdminCommissionPercent = 20
	}
}

// Testing returns a configuration suitable for unit tests and sets it as AppConfig.
func Testing() *Config {
	AppConfig = &Config{
		Port:                   "0",
		AppEnv:                 "test",
		DBDriver:               "sqlite",
		AccessTokenSecret:      "test-access-secret",
		AccessTokenExpiry:      time.Hour,
		RefreshTokenSecret:     "test-refresh-secret",
		RefreshTokenExpiry:     24 * time.Hour,
		SaltRound:              4,
		CorsOrigin:             "*",
		AdminCommissionPercent: 20,
		EnrollmentPendingTTL:   7 * 24 * time.Hour,
		EnrollmentExpiryCron:   "@hourly",
		CloudinaryBaseURL:      "https://api.cloudinary.com",
		EmailSender:            "noreply@edulearn.local",
	}
	return AppConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return b
}

// getEnvDuration accepts Go durations ("15m", "24h") or a plain number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Error converting environment variable %s to duration: %q", key, value)
	return defaultValue
}
