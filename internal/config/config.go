package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/text/language"
)

// Prefix is the common prefix of every environment variable name.
const Prefix = "HEARTCHECK"

// defaultEnvFile is loaded when no env file is named. It may be absent.
const defaultEnvFile = ".env"

// Config holds all heartcheck configuration.
type Config struct {
	App     AppConfig
	Dataset DatasetConfig
	Engine  EngineConfig
	Server  ServerConfig
	Output  OutputConfig
}

// AppConfig holds process-wide settings.
type AppConfig struct {
	Env      string `envconfig:"HEARTCHECK_ENV" default:"development"`
	LogLevel string `envconfig:"HEARTCHECK_LOG_LEVEL" default:"info"`
	Lang     string `envconfig:"HEARTCHECK_DESCRIPTION_LANG" default:"en"`
}

// DatasetConfig locates the reference data.
type DatasetConfig struct {
	Path       string `envconfig:"HEARTCHECK_DATASET_PATH" default:"Dataset/df_cleaned.csv"`
	SampleRows int    `envconfig:"HEARTCHECK_SAMPLE_ROWS" default:"5"`
}

// EngineConfig holds classifier and preprocessing settings.
type EngineConfig struct {
	ModelPath          string `envconfig:"HEARTCHECK_MODEL_PATH" default:"Model/rf_model_normalisasi.onnx"`
	LibraryPath        string `envconfig:"HEARTCHECK_ORT_LIBRARY_PATH"`
	Seed               uint64 `envconfig:"HEARTCHECK_SEED" default:"42"`
	Neighbors          int    `envconfig:"HEARTCHECK_NEIGHBORS" default:"5"`
	ScaleBeforePredict bool   `envconfig:"HEARTCHECK_SCALE_BEFORE_PREDICT" default:"false"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr           string `envconfig:"HEARTCHECK_ADDR" default:":8080"`
	MaxUploadBytes int64  `envconfig:"HEARTCHECK_MAX_UPLOAD_BYTES" default:"10485760"`
}

// OutputConfig selects where CLI predictions go.
type OutputConfig struct {
	Kind       string `envconfig:"HEARTCHECK_OUTPUT" default:"stdout"` // comma-separated: "stdout", "file", "webhook"
	Format     string `envconfig:"HEARTCHECK_OUTPUT_FORMAT" default:"json"`
	Verbosity  string `envconfig:"HEARTCHECK_OUTPUT_VERBOSITY" default:"full"` // "minimal", "full"
	Pretty     bool   `envconfig:"HEARTCHECK_OUTPUT_PRETTY" default:"false"`
	File       string `envconfig:"HEARTCHECK_OUTPUT_FILE"`
	FileMaxMB  int    `envconfig:"HEARTCHECK_OUTPUT_FILE_MAX_MB" default:"0"`
	WebhookURL string `envconfig:"HEARTCHECK_WEBHOOK_URL"`
}

// Load reads the named env files (or an optional .env), then the HEARTCHECK_*
// environment. Variables already set in the environment win over file entries.
// A named file that cannot be read is an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: %s: %w", defaultEnvFile, err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("config: env file: %w", err)
	}

	// Sections share one flat namespace, so each is processed on its own;
	// a nested struct would otherwise add its field name to the key. Tags hold
	// full names because envconfig falls back to the bare tag value, so a
	// prefixed short tag would read host variables such as ENV or SEED.
	var cfg Config
	for _, section := range []any{&cfg.App, &cfg.Dataset, &cfg.Engine, &cfg.Server, &cfg.Output} {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return &cfg, nil
}

// Validate checks the configuration for values that would fail later at startup.
func (c *Config) Validate() error {
	if c.Dataset.Path == "" {
		return fmt.Errorf("config: %s_DATASET_PATH must not be empty", Prefix)
	}
	if c.Dataset.SampleRows < 1 {
		return fmt.Errorf("config: %s_SAMPLE_ROWS must be positive, got %d", Prefix, c.Dataset.SampleRows)
	}
	if c.Engine.ModelPath == "" {
		return fmt.Errorf("config: %s_MODEL_PATH must not be empty", Prefix)
	}
	if c.Engine.Seed == 0 {
		return fmt.Errorf("config: %s_SEED must be non-zero", Prefix)
	}
	if c.Engine.Neighbors < 1 {
		return fmt.Errorf("config: %s_NEIGHBORS must be at least 1, got %d", Prefix, c.Engine.Neighbors)
	}
	if err := validateAddr(c.Server.Addr); err != nil {
		return err
	}
	if c.Server.MaxUploadBytes < 1 {
		return fmt.Errorf("config: %s_MAX_UPLOAD_BYTES must be positive", Prefix)
	}
	if _, err := language.Parse(c.App.Lang); err != nil {
		return fmt.Errorf("config: %s_DESCRIPTION_LANG: %w", Prefix, err)
	}

	kinds := c.Output.Kinds()
	if len(kinds) == 0 {
		return fmt.Errorf("config: %s_OUTPUT must name at least one output", Prefix)
	}
	for _, kind := range kinds {
		switch kind {
		case "stdout":
		case "file":
			if c.Output.File == "" {
				return fmt.Errorf("config: %s_OUTPUT=file requires %s_OUTPUT_FILE", Prefix, Prefix)
			}
		case "webhook":
			if c.Output.WebhookURL == "" {
				return fmt.Errorf("config: %s_OUTPUT=webhook requires %s_WEBHOOK_URL", Prefix, Prefix)
			}
		default:
			return fmt.Errorf("config: unknown output %q", kind)
		}
	}
	switch c.Output.Format {
	case "json", "csv":
	default:
		return fmt.Errorf("config: unknown output format %q", c.Output.Format)
	}
	switch c.Output.Verbosity {
	case "minimal", "full":
	default:
		return fmt.Errorf("config: unknown output verbosity %q", c.Output.Verbosity)
	}
	if c.Output.FileMaxMB < 0 {
		return fmt.Errorf("config: %s_OUTPUT_FILE_MAX_MB must not be negative", Prefix)
	}
	return nil
}

// Kinds splits the comma-separated output list.
func (o OutputConfig) Kinds() []string {
	var kinds []string
	for _, k := range strings.Split(o.Kind, ",") {
		if k = strings.TrimSpace(k); k != "" {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Language returns the configured default description language.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.App.Lang)
	if err != nil {
		return language.English
	}
	return tag
}

func validateAddr(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("config: %s_ADDR %q: %w", Prefix, addr, err)
	}
	p, err := strconv.Atoi(port)
	if err != nil || p < 0 || p > 65535 {
		return fmt.Errorf("config: %s_ADDR %q: invalid port", Prefix, addr)
	}
	return nil
}
