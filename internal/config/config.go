package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	DBDriver    string
	MySQLDSN    string
	SQLitePath  string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	SwaggerHost string
	LogLevel    string
	ResetDB     bool

	WorldIDAppID  string
	WorldIDAction string
	WorldIDAPIURL string
	CookieSecure  bool

	AuctionCacheTTL   time.Duration
	LifecycleInterval time.Duration
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is read first when present; real environment
// variables take precedence over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		DBDriver:    getEnv("DB_DRIVER", "mysql"),
		MySQLDSN:    getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/autobid?charset=utf8mb4&parseTime=True&loc=UTC"),
		SQLitePath:  getEnv("SQLITE_PATH", "autobid.db"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:   getEnv("JWT_SECRET", "change-me"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		ResetDB:     getEnvBool("RESET_DB", false),

		WorldIDAppID:  os.Getenv("WORLDID_APP_ID"),
		WorldIDAction: getEnv("WORLDID_ACTION", "verify-identity"),
		WorldIDAPIURL: getEnv("WORLDID_API_URL", "https://developer.worldcoin.org"),
		CookieSecure:  getEnvBool("COOKIE_SECURE", true),

		AuctionCacheTTL:   getEnvDuration("AUCTION_CACHE_TTL", 30*time.Second),
		LifecycleInterval: getEnvDuration("LIFECYCLE_INTERVAL", 0),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
