package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds every process-wide setting. It is built once in main
// and passed into constructors; nothing reads the environment after
// Load returns.
type Config struct {
	AppPort    string
	DBDSN      string
	JWTSecret  []byte
	TokenTTL   time.Duration
	BcryptCost int
	MediaRoot  string
}

func Load() (*Config, error) {
	// .env is optional; system environment wins when absent.
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:    getenv("APP_PORT", "8080"),
		DBDSN:      os.Getenv("DB_DSN"),
		JWTSecret:  []byte(os.Getenv("JWT_SECRET")),
		TokenTTL:   15 * time.Minute,
		BcryptCost: bcrypt.DefaultCost,
		MediaRoot:  getenv("MEDIA_ROOT", "./media_files"),
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is not set")
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		mins, err := strconv.Atoi(v)
		if err != nil || mins <= 0 {
			return nil, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES: %q", v)
		}
		cfg.TokenTTL = time.Duration(mins) * time.Minute
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %q", v)
		}
		cfg.BcryptCost = cost
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
