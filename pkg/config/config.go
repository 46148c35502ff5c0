package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Backends accepted by STATE_BACKEND
const (
	BackendDatabase = "database"
	BackendBolt     = "bolt"
	BackendMemory   = "memory"
)

// Config is read from the environment, after an optional .env file
type Config struct {
	Port            string `env:"PORT" envDefault:"8000"`
	GinMode         string `env:"GIN_MODE"`
	DatabaseURL     string `env:"DATABASE_URL"`
	DataPath        string `env:"DATA_PATH" envDefault:"w2w.db"`
	StateBackend    string `env:"STATE_BACKEND" envDefault:"database"`
	BoltPath        string `env:"BOLT_PATH" envDefault:"w2w_state.bolt"`
	JWTSecret       string `env:"JWT_SECRET"`
	APIMasterSecret string `env:"API_MASTER_SECRET"`
	AdminUsername   string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword   string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
}

// envPaths are tried in order; the first existing file is loaded
var envPaths = []string{".env", "../.env", "../../.env"}

// LoadDotEnv loads the first .env found without overriding set variables
func LoadDotEnv() {
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}
}

// Load reads .env if present and parses the environment
func Load() (Config, error) {
	LoadDotEnv()
	return Parse()
}

// Parse reads the environment into a Config and checks the backend name
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.StateBackend {
	case BackendDatabase, BackendBolt, BackendMemory:
	default:
		return Config{}, fmt.Errorf("unknown STATE_BACKEND %q", cfg.StateBackend)
	}
	return cfg, nil
}
