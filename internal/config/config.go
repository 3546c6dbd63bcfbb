package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"

	"github.com/hamed0406/webmon/internal/domain"
)

const DefaultConfigPath = "config.json"

// Target mirrors one entry of the config file's "targets" list. "req" is
// optional and defaults to no content requirements.
type Target struct {
	URL string   `mapstructure:"url"`
	Req []string `mapstructure:"req"`
}

// Config is loaded once at startup and immutable for the process lifetime.
type Config struct {
	Interval int      `mapstructure:"interval"` // seconds
	Targets  []Target `mapstructure:"targets"`
}

// Load reads the JSON config file and applies the command-line interval
// override. The interval must come from at least one of the two sources;
// otherwise the error is fatal and the caller should exit.
func Load(path string, cliInterval int) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if cliInterval > 0 {
		cfg.Interval = cliInterval
	}
	if cfg.Interval == 0 {
		return nil, errors.New("check interval must be set in the config file or with --interval")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Interval, validation.Required, validation.Min(1)),
		validation.Field(&c.Targets, validation.Each(validation.By(validateTarget))),
	)
}

func validateTarget(value interface{}) error {
	t, ok := value.(Target)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a target")
	}
	return validation.ValidateStruct(&t,
		validation.Field(&t.URL, validation.Required, is.URL),
	)
}

// IntervalDuration returns the check interval as a duration.
func (c *Config) IntervalDuration() time.Duration {
	return time.Duration(c.Interval) * time.Second
}

// DomainTargets converts the file representation into the domain model.
func (c *Config) DomainTargets() []domain.Target {
	out := make([]domain.Target, 0, len(c.Targets))
	for _, t := range c.Targets {
		out = append(out, domain.Target{
			URL:                 t.URL,
			ContentRequirements: t.Req,
		})
	}
	return out
}

// Env holds runtime knobs that do not belong in the monitoring config file.
type Env struct {
	LogDir      string // logs directory
	DatabaseURL string // when set, the log store uses PostgreSQL
	DBPath      string // sqlite file path, default "logs.db"
}

func FromEnv() Env {
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "logs.db"
	}
	return Env{
		LogDir:      logDir,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBPath:      dbPath,
	}
}
