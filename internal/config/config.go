// Package config handles loading and validating the samplegen configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the root configuration for samplegen.
type Config struct {
	Kokoro  KokoroConfig  `mapstructure:"kokoro"`
	Sample  SampleConfig  `mapstructure:"sample"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// KokoroConfig holds the settings for the Kokoro TTS service.
type KokoroConfig struct {
	APIURL            string        `mapstructure:"api_url"`
	Model             string        `mapstructure:"model"`
	ListTimeout       time.Duration `mapstructure:"list_timeout"`
	SynthesizeTimeout time.Duration `mapstructure:"synthesize_timeout"` // synthesis is CPU-bound on the service
}

// SampleConfig describes what each sample contains and where it is written.
type SampleConfig struct {
	Text      string  `mapstructure:"text"`
	Format    string  `mapstructure:"format"` // response_format and file extension
	Speed     float64 `mapstructure:"speed"`
	OutputDir string  `mapstructure:"output_dir"`
}

// BatchConfig controls the generation run.
type BatchConfig struct {
	Size  int  `mapstructure:"size"`
	Force bool `mapstructure:"force"`
}

// ServerConfig configures the sample file server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"api-url":    "kokoro.api_url",
	"batch-size": "batch.size",
	"force":      "batch.force",
	"output-dir": "sample.output_dir",
	"port":       "server.port",
	"log-level":  "logging.level",
	"log-format": "logging.format",
}

// Load reads the configuration from defaults, an optional config file,
// environment variables and command-line flags, in increasing precedence.
// If configFile is empty the search order is ./samplegen.yaml, ./configs/samplegen.yaml.
// flags may be nil; only flags present in it are bound.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("kokoro.api_url", "http://localhost:8880")
	v.SetDefault("kokoro.model", "kokoro")
	v.SetDefault("kokoro.list_timeout", 10*time.Second)
	v.SetDefault("kokoro.synthesize_timeout", 120*time.Second)
	v.SetDefault("sample.text", "Hello Everyone, Welcome to Dexterous!")
	v.SetDefault("sample.format", "mp3")
	v.SetDefault("sample.speed", 1.0)
	v.SetDefault("sample.output_dir", "web/voice_samples")
	v.SetDefault("batch.size", 3)
	v.SetDefault("batch.force", false)
	v.SetDefault("server.port", 8090)
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("samplegen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	// SAMPLEGEN_KOKORO_API_URL, SAMPLEGEN_BATCH_SIZE, etc.
	v.SetEnvPrefix("SAMPLEGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Debug("no config file found, using defaults, environment and flags")
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.Kokoro.APIURL = strings.TrimRight(cfg.Kokoro.APIURL, "/")

	return &cfg, nil
}

// Validate reports the first setting that would make a run meaningless.
func (c *Config) Validate() error {
	if c.Kokoro.APIURL == "" {
		return errors.New("kokoro api url must not be empty")
	}
	if c.Batch.Size < 1 {
		return fmt.Errorf("batch size must be at least 1, got %d", c.Batch.Size)
	}
	if c.Sample.Speed <= 0 {
		return fmt.Errorf("sample speed must be positive, got %v", c.Sample.Speed)
	}
	if c.Sample.Format == "" {
		return errors.New("sample format must not be empty")
	}
	return nil
}

// SetupLogging configures the global slog logger based on config.
// Logs go to stderr; stdout carries the progress report.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
