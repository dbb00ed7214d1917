package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Addr          string
	JWTSecret     string
	JWTIssuer     string
	JWTDuration   time.Duration
	SessionSecret string
	JikanBaseURL  string
	Environment   string
}

// LoadConfig reads configuration from the environment, with a .env file as
// an optional source. Every value has a development default; the secrets
// must be overridden for any real deployment.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("could not load .env file")
	}

	cfg := Config{
		Addr:          getEnv("ANIMEHUB_ADDR", ":3000"),
		JWTSecret:     getEnv("ANIMEHUB_JWT_SECRET", "default-secret-change-in-production"),
		JWTIssuer:     getEnv("ANIMEHUB_JWT_ISSUER", "animehub"),
		JWTDuration:   7 * 24 * time.Hour,
		SessionSecret: getEnv("ANIMEHUB_SESSION_SECRET", "default-session-secret"),
		JikanBaseURL:  getEnv("ANIMEHUB_JIKAN_URL", "https://api.jikan.moe/v4"),
		Environment:   getEnv("ANIMEHUB_ENV", "development"),
	}

	if h := os.Getenv("ANIMEHUB_JWT_TTL_HOURS"); h != "" {
		if n, err := strconv.Atoi(h); err == nil && n > 0 {
			cfg.JWTDuration = time.Duration(n) * time.Hour
		}
	}

	if cfg.Environment == "production" && cfg.JWTSecret == "default-secret-change-in-production" {
		logrus.Warn("running with the default JWT secret")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
