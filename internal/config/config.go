package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/tally/internal/money"
)

// FileName is the config file at the root of a book directory.
const FileName = "tally.yaml"

// Source kinds.
const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Book   BookConfig   `yaml:"book"`
	Fiscal FiscalConfig `yaml:"fiscal"`
	Source SourceConfig `yaml:"source"`
	Engine EngineConfig `yaml:"engine"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// BookConfig identifies the account book.
type BookConfig struct {
	Name          string `yaml:"name" validate:"required"`
	CurrencyScale int    `yaml:"currency_scale" validate:"gte=0,lte=9"`
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start" validate:"omitempty,datetime=01-02"` // "MM-DD" format, e.g. "01-01"
}

// SourceConfig says where the book's data lives. A relative Path is resolved
// against the book directory.
type SourceConfig struct {
	Kind string `yaml:"kind" validate:"oneof=csv sqlite"`
	Path string `yaml:"path" validate:"required"`
}

// EngineConfig tunes report computation.
type EngineConfig struct {
	Workers        int    `yaml:"workers" validate:"gte=1,lte=64"`
	TrialTolerance string `yaml:"trial_tolerance"`
}

// ServerConfig controls the HTTP report API.
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn warning error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Load reads a tally.yaml file from disk. Fields missing from the file keep
// their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new book.
func Default(bookName string) *Config {
	return &Config{
		Book: BookConfig{
			Name:          bookName,
			CurrencyScale: money.DefaultScale,
		},
		Fiscal: FiscalConfig{
			YearStart: "01-01",
		},
		Source: SourceConfig{
			Kind: SourceCSV,
			Path: ".",
		},
		Engine: EngineConfig{
			Workers:        4,
			TrialTolerance: "0.00",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

var validate = validator.New()

// Validate checks field constraints and that the trial tolerance parses at the
// book's scale.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Tolerance(); err != nil {
		return fmt.Errorf("invalid config: engine.trial_tolerance: %w", err)
	}
	return nil
}

// Tolerance returns the allowed trial balance difference.
func (c *Config) Tolerance() (money.Money, error) {
	if c.Engine.TrialTolerance == "" {
		return money.New(0, c.Book.CurrencyScale), nil
	}
	m, err := money.Parse(c.Engine.TrialTolerance, c.Book.CurrencyScale)
	if err != nil {
		return money.Money{}, err
	}
	if m.Sign() < 0 {
		return money.Money{}, fmt.Errorf("%w: negative tolerance %s", money.ErrInvalidAmount, c.Engine.TrialTolerance)
	}
	return m, nil
}

// FiscalYearStart returns the first day of the fiscal year that begins in year.
func (c *Config) FiscalYearStart(year int) (time.Time, error) {
	start := c.Fiscal.YearStart
	if start == "" {
		start = "01-01"
	}
	t, err := time.Parse("01-02", start)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing fiscal.year_start %q: %w", start, err)
	}
	return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// FiscalYearContaining returns the start of the fiscal year that d falls in.
func (c *Config) FiscalYearContaining(d time.Time) (time.Time, error) {
	start, err := c.FiscalYearStart(d.Year())
	if err != nil {
		return time.Time{}, err
	}
	if d.Before(start) {
		return c.FiscalYearStart(d.Year() - 1)
	}
	return start, nil
}

// Environment variables that override the file.
const (
	EnvSourceKind = "TALLY_SOURCE_KIND"
	EnvSourcePath = "TALLY_SOURCE_PATH"
	EnvServerAddr = "TALLY_SERVER_ADDR"
	EnvLogLevel   = "TALLY_LOG_LEVEL"
)

// ApplyEnv overrides config fields from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvSourceKind); v != "" {
		c.Source.Kind = v
	}
	if v := os.Getenv(EnvSourcePath); v != "" {
		c.Source.Path = v
	}
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// LoadDotEnv loads environment variables from a .env file. An empty path means
// .env in the working directory, which may be absent.
func LoadDotEnv(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
