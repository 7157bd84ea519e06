package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Host        string
	Env         string
	Version     string
	FrontendDir string

	// Storage
	DatabaseURL   string
	MongoDatabase string
	MigrationsDir string

	// HTTP
	AllowedOrigins    []string
	RequestTimeout    time.Duration
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Redis (rate limiting)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWT, empty secret disables authentication
	JWTSecret string
	JWTTTL    time.Duration
}

func New() *Config {
	return &Config{
		Host:        getEnv("APP_HOST", ":8080"),
		Env:         getEnv("ENV", "development"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
		FrontendDir: getEnv("FRONTEND_DIST", "./frontend/dist"),

		DatabaseURL:   getEnv("DATABASE_URL", "sqlite3://assettracker.db"),
		MongoDatabase: getEnv("MONGO_DATABASE", "hospital_crm_db"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", ""),

		AllowedOrigins:    getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		RequestTimeout:    getEnvAsDuration("REQUEST_TIMEOUT", 15*time.Second),
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 300),
		RateLimitWindow:   getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    getEnvAsDuration("JWT_TTL", 24*time.Hour),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
