package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage backends for the identity and session-record stores.
const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`

	// Storage selects the persistence backend: "memory" runs with the
	// seeded demo identities and needs no external services; "mongo" uses
	// MongoDB for identities and Redis for session records.
	Storage string `env:"STORAGE, default=memory"`

	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=24h"`
	SessionTTL time.Duration `env:"SESSION_TTL, default=720h"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=jobox"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return &cfg
}

// Validate rejects configurations that cannot serve requests.
func (c *Config) Validate() error {
	if c.Storage != StorageMemory && c.Storage != StorageMongo {
		return fmt.Errorf("unknown STORAGE %q (want %q or %q)", c.Storage, StorageMemory, StorageMongo)
	}
	if c.JWTSecret == "" && c.Env != "development" {
		return fmt.Errorf("JWT_SECRET is required outside development")
	}
	return nil
}
