// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Extractor backends accepted by parsers.pdf.extractor.
const (
	ExtractorLibrary   = "library"
	ExtractorPdftotext = "pdftotext"
	ExtractorText      = "text"
)

// Report formats accepted by report.format.
var reportFormats = []string{"text", "json", "yaml"}

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`
		IncludeHeaders bool   `mapstructure:"include_headers" yaml:"include_headers"`
	} `mapstructure:"csv" yaml:"csv"`

	Parsers struct {
		PDF struct {
			Extractor string `mapstructure:"extractor" yaml:"extractor"`
		} `mapstructure:"pdf" yaml:"pdf"`
		Records struct {
			DropIncompleteTail bool `mapstructure:"drop_incomplete_tail" yaml:"drop_incomplete_tail"`
		} `mapstructure:"records" yaml:"records"`
	} `mapstructure:"parsers" yaml:"parsers"`

	Report struct {
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"report" yaml:"report"`

	Batch struct {
		Workers int `mapstructure:"workers" yaml:"workers"`
	} `mapstructure:"batch" yaml:"batch"`

	Server struct {
		Addr        string `mapstructure:"addr" yaml:"addr"`
		BodyLimitMB int    `mapstructure:"body_limit_mb" yaml:"body_limit_mb"`
	} `mapstructure:"server" yaml:"server"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.trs-records")
	v.AddConfigPath(".trs-records")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("TRS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// CSV_DELIMITER predates the TRS_ prefix
	if err := v.BindEnv("csv.delimiter", "TRS_CSV_DELIMITER", "CSV_DELIMITER"); err != nil {
		return nil, fmt.Errorf("failed to bind CSV_DELIMITER: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.include_headers", true)

	v.SetDefault("parsers.pdf.extractor", ExtractorLibrary)
	v.SetDefault("parsers.records.drop_incomplete_tail", false)

	v.SetDefault("report.format", "text")

	v.SetDefault("batch.workers", 4)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.body_limit_mb", 32)
}

// DefaultConfig returns the configuration obtained from defaults alone.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Unmarshalling plain defaults into Config cannot fail.
	_ = v.Unmarshal(&config)
	return &config
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	switch config.Parsers.PDF.Extractor {
	case ExtractorLibrary, ExtractorPdftotext, ExtractorText:
	default:
		return fmt.Errorf("invalid pdf extractor: %s (must be '%s', '%s' or '%s')",
			config.Parsers.PDF.Extractor, ExtractorLibrary, ExtractorPdftotext, ExtractorText)
	}

	if !isReportFormat(config.Report.Format) {
		return fmt.Errorf("invalid report format: %s (must be one of %s)",
			config.Report.Format, strings.Join(reportFormats, ", "))
	}

	if config.Batch.Workers < 1 || config.Batch.Workers > 64 {
		return fmt.Errorf("batch.workers must be between 1 and 64, got: %d", config.Batch.Workers)
	}

	if config.Server.BodyLimitMB < 1 || config.Server.BodyLimitMB > 1024 {
		return fmt.Errorf("server.body_limit_mb must be between 1 and 1024, got: %d", config.Server.BodyLimitMB)
	}

	return nil
}

func isReportFormat(format string) bool {
	for _, f := range reportFormats {
		if f == format {
			return true
		}
	}
	return false
}

// ConfigureLoggingFromConfig configures a logrus logger based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
