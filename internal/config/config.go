package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/atio-cli/internal/db"
	"github.com/sells-group/atio-cli/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Catalog    CatalogConfig    `yaml:"catalog" mapstructure:"catalog"`
	Scoring    ScoringConfig    `yaml:"scoring" mapstructure:"scoring"`
	Comparison ComparisonConfig `yaml:"comparison" mapstructure:"comparison"`
	Session    SessionConfig    `yaml:"session" mapstructure:"session"`
	Analysis   AnalysisConfig   `yaml:"analysis" mapstructure:"analysis"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// CatalogConfig selects the innovation dataset. An empty path uses the
// embedded catalog.
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ScoringConfig holds the default ranking weights and ordering for new
// sessions.
type ScoringConfig struct {
	Weights model.RankingWeights `yaml:"weights" mapstructure:"weights"`
	SortKey string               `yaml:"sort_key" mapstructure:"sort_key"`
}

// ComparisonConfig bounds the comparison set. 0 means unbounded.
type ComparisonConfig struct {
	MaxSize int `yaml:"max_size" mapstructure:"max_size"`
}

// SessionConfig controls idle session expiry.
type SessionConfig struct {
	IdleTTL       time.Duration `yaml:"idle_ttl" mapstructure:"idle_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval" mapstructure:"sweep_interval"`
}

// AnalysisConfig tunes the simulation.
type AnalysisConfig struct {
	StartYear int `yaml:"start_year" mapstructure:"start_year"`
}

// StoreConfig configures the saved-decision backend.
type StoreConfig struct {
	Driver      string        `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string        `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string        `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	Pool        db.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	RateLimit      float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Load reads configuration from ./config.yaml (if present), a .env file
// (if present) and ATIO_* environment variables.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path searches
// the working directory for config.yaml.
func LoadFile(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ATIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("catalog.path", "")
	v.SetDefault("scoring.weights.readiness", 0.35)
	v.SetDefault("scoring.weights.adoption", 0.30)
	v.SetDefault("scoring.weights.sdg", 0.20)
	v.SetDefault("scoring.weights.regional", 0.15)
	v.SetDefault("scoring.sort_key", string(model.SortByScore))
	v.SetDefault("comparison.max_size", 0)
	v.SetDefault("session.idle_ttl", "2h")
	v.SetDefault("session.sweep_interval", "5m")
	v.SetDefault("analysis.start_year", 2026)
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.sqlite_path", "atio.db")
	v.SetDefault("store.pool.max_conns", 10)
	v.SetDefault("store.pool.min_conns", 2)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// loadDotEnv loads path into the process environment when it exists.
// Variables already set win over the file.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return eris.Wrapf(err, "config: load %s", path)
	}
	return nil
}

// Validate checks the settings a command needs. Mode "serve" also checks
// the server section.
func (c *Config) Validate(mode string) error {
	var problems []string

	w := c.Scoring.Weights
	for name, v := range map[string]float64{
		"readiness": w.Readiness, "adoption": w.Adoption, "sdg": w.SDG, "regional": w.Regional,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			problems = append(problems, fmt.Sprintf("scoring.weights.%s must be a non-negative number", name))
		}
	}
	switch model.SortKey(strings.ToLower(c.Scoring.SortKey)) {
	case "", model.SortByScore, model.SortByReadiness, model.SortByAdoption:
	default:
		problems = append(problems, fmt.Sprintf("scoring.sort_key %q is not one of score, readiness, adoption", c.Scoring.SortKey))
	}
	if c.Comparison.MaxSize < 0 {
		problems = append(problems, "comparison.max_size must be >= 0")
	}
	if c.Session.IdleTTL < 0 {
		problems = append(problems, "session.idle_ttl must be >= 0")
	}

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			problems = append(problems, "store.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for the postgres driver")
		}
	case DriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("store.driver %q is not one of sqlite, postgres, memory", c.Store.Driver))
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
		}
		if c.Server.RateLimit < 0 {
			problems = append(problems, "server.rate_limit must be >= 0")
		}
	case "cli":
	default:
		return eris.Errorf("config: unknown validation mode %q", mode)
	}

	if len(problems) > 0 {
		slices.Sort(problems)
		return eris.Errorf("config: invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
