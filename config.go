package zecs

import (
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config tunes a Store. It can be loaded from the environment with LoadConfig or built in code
// from DefaultConfig.
type Config struct {
	// ChunkBytes is the target size of one chunk arena. Groups with wide rows still get at
	// least one row per chunk.
	ChunkBytes int `env:"ZECS_CHUNK_BYTES" envDefault:"16384"`

	// Workers caps concurrent chunk tasks in parallel traversals. Zero means GOMAXPROCS.
	Workers int `env:"ZECS_WORKERS" envDefault:"0"`

	// IndicesPoolSize is the number of column index buffers kept for parallel traversals.
	IndicesPoolSize int `env:"ZECS_INDICES_POOL_SIZE" envDefault:"64"`

	// InitialCapacity presizes the entity directory.
	InitialCapacity int `env:"ZECS_INITIAL_CAPACITY" envDefault:"1024"`

	// Log level ("debug", "info", "warn", "error", "disabled").
	LogLevel string `env:"ZECS_LOG_LEVEL" envDefault:"info"`

	// Log format ("json", "pretty").
	LogFormat string `env:"ZECS_LOG_FORMAT" envDefault:"json"`
}

// DefaultConfig returns the configuration LoadConfig produces with an empty environment.
func DefaultConfig() Config {
	return Config{
		ChunkBytes:      16 * 1024,
		Workers:         0,
		IndicesPoolSize: 64,
		InitialCapacity: 1024,
		LogLevel:        "info",
		LogFormat:       string(LogFormatJSON),
	}
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (Config, error) {
	cfg := Config{}

	if err := env.Parse(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to parse store config")
	}

	if err := cfg.validate(); err != nil {
		return cfg, eris.Wrap(err, "failed to validate store config")
	}

	return cfg, nil
}

// validate performs validation on the loaded configuration.
func (cfg *Config) validate() error {
	if cfg.ChunkBytes <= 0 {
		return eris.Errorf("chunk bytes must be positive, got %d", cfg.ChunkBytes)
	}
	if cfg.Workers < 0 {
		return eris.Errorf("workers cannot be negative, got %d", cfg.Workers)
	}
	if cfg.IndicesPoolSize < 0 {
		return eris.Errorf("indices pool size cannot be negative, got %d", cfg.IndicesPoolSize)
	}
	if cfg.InitialCapacity < 0 {
		return eris.Errorf("initial capacity cannot be negative, got %d", cfg.InitialCapacity)
	}

	_, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return eris.Errorf("invalid log level: %s (must be 'debug', 'info', 'warn', or 'error')", cfg.LogLevel)
	}

	if ParseLogFormat(cfg.LogFormat) == LogFormatUndefined {
		return eris.Errorf("invalid log format: %s (must be 'json' or 'pretty')", cfg.LogFormat)
	}

	return nil
}
