package config

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/viper"

	"pdf_optimizer/pdf"
)

const (
	// DefaultMaxFileSize is the default maximum size of one uploaded file (50MB)
	DefaultMaxFileSize = 50 * 1024 * 1024

	// DefaultMaxBatchFiles caps the number of files in one request
	DefaultMaxBatchFiles = 20

	// DefaultPort is the default server port
	DefaultPort = "8080"

	// DefaultTempDir is the default working directory for artifacts
	DefaultTempDir = "./temp"

	// DefaultCompressionTimeout bounds one Ghostscript run
	DefaultCompressionTimeout = pdf.DefaultCompressionTimeout
)

// Config holds application configuration
type Config struct {
	Port               string        `mapstructure:"port"`
	TempDir            string        `mapstructure:"temp_dir"`
	MaxFileSize        int64         `mapstructure:"max_file_size"`
	MaxBatchFiles      int           `mapstructure:"max_batch_files"`
	Workers            int           `mapstructure:"workers"`
	CompressionTimeout time.Duration `mapstructure:"compression_timeout"`
	GhostscriptPath    string        `mapstructure:"ghostscript_path"`
	LogLevel           string        `mapstructure:"log_level"`
	LogFormat          string        `mapstructure:"log_format"`
}

// SetDefaults registers every key with its default so that AutomaticEnv can
// resolve it from the environment (PORT, TEMP_DIR, ...).
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", DefaultPort)
	v.SetDefault("temp_dir", DefaultTempDir)
	v.SetDefault("max_file_size", DefaultMaxFileSize)
	v.SetDefault("max_batch_files", DefaultMaxBatchFiles)
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("compression_timeout", DefaultCompressionTimeout)
	v.SetDefault("ghostscript_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load reads configuration from the environment and, when configPath is not
// empty, from that YAML file.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper decodes and validates a configured viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.TempDir == "" {
		errs = append(errs, errors.New("temp_dir must not be empty"))
	}
	if c.MaxFileSize <= 0 {
		errs = append(errs, fmt.Errorf("max_file_size must be positive, got %d", c.MaxFileSize))
	}
	if c.MaxBatchFiles <= 0 {
		errs = append(errs, fmt.Errorf("max_batch_files must be positive, got %d", c.MaxBatchFiles))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if c.CompressionTimeout <= 0 {
		errs = append(errs, fmt.Errorf("compression_timeout must be positive, got %v", c.CompressionTimeout))
	}
	return errors.Join(errs...)
}
