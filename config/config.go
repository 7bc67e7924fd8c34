package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Config struct {
	Env        string `env:"ENVIRONMENT"`
	ServerPort int    `env:"SERVER_PORT" envDefault:"8080"`

	Firebase struct {
		ProjectID       string `env:"FIREBASE_PROJECT_ID"`
		CredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
		DatabaseRegion  string `env:"FIREBASE_DATABASE_REGION" envDefault:"asia-southeast1"`
		// DatabaseBaseURL overrides the URL derived from ProjectID + DatabaseRegion.
		DatabaseBaseURL  string `env:"FIREBASE_DATABASE_URL"`
		MessagingBaseURL string `env:"FIREBASE_MESSAGING_URL" envDefault:"https://fcm.googleapis.com"`
		TimeoutSecs      int    `env:"FIREBASE_TIMEOUT_SECS" envDefault:"10"`
	}

	Fanout struct {
		// Strict preserves the legacy all-or-nothing fan-out: the first failing
		// token aborts the remaining sends. When false, every token is attempted
		// and callers get a per-token outcome list instead.
		Strict bool `env:"FANOUT_STRICT" envDefault:"true"`
	}

	log *zap.Logger
}

func NewConfig(lc fx.Lifecycle, log *zap.Logger) *Config {
	// A missing .env is fine, envvars may come from the real environment.
	godotenv.Load()

	cfg := &Config{log: log}
	if err := env.Parse(cfg); err != nil {
		log.Sugar().Panicf("failed to parse config from environment: %v", err)
	}

	if cfg.Firebase.ProjectID == "" {
		log.Sugar().Warn("FIREBASE_PROJECT_ID is not set, outbound Firebase calls will fail")
	}

	return cfg
}

// DatabaseURL is the root of the Realtime Database REST surface. Store paths
// are appended to it and suffixed with .json.
func (cfg *Config) DatabaseURL() string {
	if cfg.Firebase.DatabaseBaseURL != "" {
		return cfg.Firebase.DatabaseBaseURL
	}
	return fmt.Sprintf("https://%s-default-rtdb.%s.firebasedatabase.app", cfg.Firebase.ProjectID, cfg.Firebase.DatabaseRegion)
}

// RemoteTimeout bounds every outbound call to Firebase (messaging and store).
func (cfg *Config) RemoteTimeout() time.Duration {
	return time.Duration(cfg.Firebase.TimeoutSecs) * time.Second
}
