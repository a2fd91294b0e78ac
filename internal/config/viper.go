package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"honeybee/attendance-engine/internal/validation"
)

// EnvPrefix prefixes every environment override, e.g. HONEYBEE_LOG_LEVEL.
const EnvPrefix = "HONEYBEE"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Facility struct {
		// HeaderRow is the 1-based row holding the day-column header.
		HeaderRow     int  `mapstructure:"header_row" yaml:"header_row"`
		SkipSubheader bool `mapstructure:"skip_subheader" yaml:"skip_subheader"`
	} `mapstructure:"facility" yaml:"facility"`

	Matching struct {
		Algorithm string  `mapstructure:"algorithm" yaml:"algorithm"`
		Threshold float64 `mapstructure:"threshold" yaml:"threshold"`
	} `mapstructure:"matching" yaml:"matching"`

	Report struct {
		Format        string `mapstructure:"format" yaml:"format"`
		SheetName     string `mapstructure:"sheet_name" yaml:"sheet_name"`
		ColumnPadding int    `mapstructure:"column_padding" yaml:"column_padding"`
	} `mapstructure:"report" yaml:"report"`

	Parsers struct {
		PDF struct {
			PdftotextPath string `mapstructure:"pdftotext_path" yaml:"pdftotext_path"`
			Layout        bool   `mapstructure:"layout" yaml:"layout"`
		} `mapstructure:"pdf" yaml:"pdf"`
	} `mapstructure:"parsers" yaml:"parsers"`
}

// InitializeConfig loads configuration with the usual precedence: defaults,
// then config.yaml, then HONEYBEE_* environment variables. An explicit
// configFile replaces the search path.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.honeybee")
		v.AddConfigPath(".honeybee")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
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

// Default returns the configuration built from defaults only.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Defaults always unmarshal cleanly.
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("facility.header_row", 9)
	v.SetDefault("facility.skip_subheader", true)

	v.SetDefault("matching.algorithm", "levenshtein")
	v.SetDefault("matching.threshold", 0.85)

	v.SetDefault("report.format", "xlsx")
	v.SetDefault("report.sheet_name", "Sheet1")
	v.SetDefault("report.column_padding", 4)

	v.SetDefault("parsers.pdf.pdftotext_path", "pdftotext")
	v.SetDefault("parsers.pdf.layout", false)
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Facility.HeaderRow < 1 {
		return fmt.Errorf("facility.header_row must be at least 1, got: %d", config.Facility.HeaderRow)
	}

	switch config.Matching.Algorithm {
	case "levenshtein", "sequence":
	default:
		return fmt.Errorf("invalid matching algorithm: %s (must be 'levenshtein' or 'sequence')", config.Matching.Algorithm)
	}

	if config.Matching.Threshold <= 0 || config.Matching.Threshold > 1 {
		return fmt.Errorf("matching.threshold must be in (0, 1], got: %f", config.Matching.Threshold)
	}

	if err := validation.IsValidOutputFormat(config.Report.Format); err != nil {
		return err
	}

	if config.Report.ColumnPadding < 0 {
		return fmt.Errorf("report.column_padding must not be negative, got: %d", config.Report.ColumnPadding)
	}

	if config.Report.SheetName == "" {
		return fmt.Errorf("report.sheet_name must not be empty")
	}

	if config.Parsers.PDF.PdftotextPath == "" {
		return fmt.Errorf("parsers.pdf.pdftotext_path must not be empty")
	}

	return nil
}

// ConfigureLoggingFromConfig builds a logrus logger from the Log section.
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
