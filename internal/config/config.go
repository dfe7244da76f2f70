// Package config loads process configuration from the environment and the
// mapping tables injected into the import pipeline.
package config

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/creature-import/internal/errors"
)

// Catalog source kinds
const (
	CatalogYAML   = "yaml"
	CatalogSQLite = "sqlite"
	CatalogSRD    = "srd"
)

// Config is the process configuration. Every field can be set from the
// environment and is overridden by command line flags.
type Config struct {
	GRPCPort   int           `env:"CREATURE_IMPORT_GRPC_PORT" envDefault:"50051"`
	RedisAddr  string        `env:"CREATURE_IMPORT_REDIS_ADDR" envDefault:"localhost:6379"`
	SessionTTL time.Duration `env:"CREATURE_IMPORT_SESSION_TTL" envDefault:"24h"`

	Catalog         string        `env:"CREATURE_IMPORT_CATALOG" envDefault:"yaml"`
	CatalogDir      string        `env:"CREATURE_IMPORT_CATALOG_DIR" envDefault:"catalog"`
	SQLitePath      string        `env:"CREATURE_IMPORT_SQLITE_PATH" envDefault:"catalog.db"`
	SRDBaseURL      string        `env:"CREATURE_IMPORT_SRD_BASE_URL" envDefault:"https://www.dnd5eapi.co/api/2014/"`
	HTTPTimeout     time.Duration `env:"CREATURE_IMPORT_HTTP_TIMEOUT" envDefault:"30s"`
	SRDCacheTTL     time.Duration `env:"CREATURE_IMPORT_SRD_CACHE_TTL" envDefault:"24h"`
	CatalogCacheTTL time.Duration `env:"CREATURE_IMPORT_CATALOG_CACHE_TTL" envDefault:"1h"`
	IndexRefresh    time.Duration `env:"CREATURE_IMPORT_INDEX_REFRESH" envDefault:"15m"`

	MappingFile string `env:"CREATURE_IMPORT_MAPPING_FILE"`
	LogLevel    string `env:"CREATURE_IMPORT_LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"CREATURE_IMPORT_LOG_FORMAT" envDefault:"text"`
}

// Load parses the environment into a Config
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	return cfg, nil
}

// Validate checks the values a command is about to use
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		vb.InvalidField("GRPCPort", "must be a TCP port")
	}
	switch c.Catalog {
	case CatalogYAML:
		if c.CatalogDir == "" {
			vb.RequiredField("CatalogDir")
		}
	case CatalogSQLite:
		if c.SQLitePath == "" {
			vb.RequiredField("SQLitePath")
		}
	case CatalogSRD:
		if c.SRDBaseURL == "" {
			vb.RequiredField("SRDBaseURL")
		}
	default:
		vb.InvalidField("Catalog", "must be one of yaml, sqlite, srd")
	}
	if c.SessionTTL <= 0 {
		vb.InvalidField("SessionTTL", "must be positive")
	}
	if c.IndexRefresh < 0 {
		vb.InvalidField("IndexRefresh", "must not be negative")
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		vb.InvalidField("LogLevel", "must be one of debug, info, warn, error")
	}

	return vb.Build()
}

// NewLogger builds the slog logger selected by LogLevel and LogFormat
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, false
	}
	return level, true
}
