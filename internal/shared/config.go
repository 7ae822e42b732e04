package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	APIBase        string
	APITimeout     time.Duration
	APIRPS         int
	RequestTimeout time.Duration

	// PagesDir optionally overrides the embedded page markup.
	PagesDir string

	// Empty RedisAddr keeps flash messages in process.
	RedisAddr string
	RedisDB   int
	RedisPass string
	FlashTTL  time.Duration
}

// Load reads the environment, after merging a .env file when one exists.
// Variables already set in the environment win over the file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env could not be read")
	}
	return fromEnv()
}

func fromEnv() Config {
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		APIBase:        env("HBNB_API_BASE", "http://localhost:5000"),
		APITimeout:     seconds("HBNB_API_TIMEOUT_SECONDS", 10),
		APIRPS:         atoi("HBNB_API_RPS", 20),
		RequestTimeout: seconds("REQUEST_TIMEOUT_SECONDS", 15),
		PagesDir:       env("PAGES_DIR", ""),
		RedisAddr:      env("REDIS_ADDR", ""),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		FlashTTL:       seconds("FLASH_TTL_SECONDS", 60),
	}
	if c.RedisAddr == "" {
		log.Debug().Msg("REDIS_ADDR is empty, flash messages stay in memory")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
	}
	return def
}

func seconds(k string, def int) time.Duration {
	return time.Duration(atoi(k, def)) * time.Second
}
