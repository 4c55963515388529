package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is everything the server reads from the environment.
type Config struct {
	Port          string
	Env           string
	DBDriver      string
	DBDSN         string
	SessionSecret string
	ImageDir      string
	MaxImageKB    int64
}

// Development reports whether APP_ENV asks for development logging.
func (c Config) Development() bool {
	return c.Env == "development"
}

// LoadDotEnv loads .env from the working directory and its parents,
// so the binary works both from the repo root and from cmd/server.
func LoadDotEnv() {
	for _, p := range []string{"../../.env", "../.env", ".env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Overload(p)
		}
	}
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Port:          getenv("APP_PORT", "8080"),
		Env:           getenv("APP_ENV", "production"),
		DBDriver:      getenv("DB_DRIVER", DriverPostgres),
		DBDSN:         os.Getenv("DB_DSN"),
		SessionSecret: getenv("SESSION_SECRET", "dev_fallback_secret"),
		ImageDir:      getenv("IMAGE_DIR", "./public/product_img"),
		MaxImageKB:    2048,
	}

	if cfg.DBDSN == "" {
		return Config{}, errors.New("DB_DSN is empty (check your .env)")
	}
	if cfg.DBDriver != DriverPostgres && cfg.DBDriver != DriverSQLite {
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if v := os.Getenv("MAX_IMAGE_KB"); v != "" {
		kb, err := strconv.ParseInt(v, 10, 64)
		if err != nil || kb <= 0 {
			return Config{}, fmt.Errorf("invalid MAX_IMAGE_KB %q", v)
		}
		cfg.MaxImageKB = kb
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
