package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string        `env:"PORT,        default=3000"`
	GinMode    string        `env:"GIN_MODE,    default=debug"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`
	CORSOrigin string        `env:"CORS_ORIGIN, default=*"`
	JWTSecret  string        `env:"JWT_SECRET,  default=your-super-secret-jwt-key-change-this-in-production"`
	JWTTTL     time.Duration `env:"JWT_EXPIRES, default=168h"`

	DB DBConfig
}

// DBConfig selects the persistence driver. The default is a local sqlite
// file; setting DB_DRIVER=postgres with DB_DSN switches to postgres.
type DBConfig struct {
	Driver string `env:"DB_DRIVER, default=sqlite"`
	Path   string `env:"DB_PATH,   default=tablecraft.db"`
	DSN    string `env:"DB_DSN"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}
