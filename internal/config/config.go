package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"sheetlens/adapters/excel"
	"sheetlens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Storage   StorageConfig   `mapstructure:"storage" yaml:"storage"`
	Export    ExportConfig    `mapstructure:"export" yaml:"export"`
	Analytics AnalyticsConfig `mapstructure:"analytics" yaml:"analytics"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `mapstructure:"port" yaml:"port"`
	GinMode string `mapstructure:"gin_mode" yaml:"gin_mode"`
}

// StorageConfig holds upload storage settings
type StorageConfig struct {
	UploadDir   string `mapstructure:"upload_dir" yaml:"upload_dir"`
	MaxFileSize int64  `mapstructure:"max_file_size" yaml:"max_file_size"`
}

// ExportConfig holds the export destination
type ExportConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// AnalyticsConfig holds defaults for engine operations
type AnalyticsConfig struct {
	WhiskerFactor  float64 `mapstructure:"whisker_factor" yaml:"whisker_factor"`
	HistogramBins  int     `mapstructure:"histogram_bins" yaml:"histogram_bins"`
	SheetName      string  `mapstructure:"sheet_name" yaml:"sheet_name"`           // empty reads the first sheet
	LenientNumbers bool    `mapstructure:"lenient_numbers" yaml:"lenient_numbers"` // accept "$1,200", "45%", "(3)"
}

// ExcelConfig translates the loader settings for the spreadsheet reader
func (a AnalyticsConfig) ExcelConfig() excel.ExcelConfig {
	cfg := excel.DefaultExcelConfig()
	cfg.SheetName = a.SheetName
	cfg.CoercionConfig.LenientNumbers = a.LenientNumbers
	return cfg
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// MetricsConfig holds Prometheus exposition settings
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// EnvPrefix prefixes every environment override, e.g. SHEETLENS_SERVER_PORT
const EnvPrefix = "SHEETLENS"

// Load reads configuration from defaults, an optional YAML file, a .env file
// and the environment, then validates it.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Config, error) {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(errors.CodeInternal, err, "failed to read config file %s", cfgFile)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "failed to unmarshal configuration")
	}

	if err := validateConfig(&c); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "configuration validation failed")
	}
	return &c, nil
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return &c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("storage.upload_dir", "uploads/datasets")
	v.SetDefault("storage.max_file_size", 50*1024*1024)
	v.SetDefault("export.dir", "downloads")
	v.SetDefault("analytics.whisker_factor", 1.3)
	v.SetDefault("analytics.histogram_bins", 20)
	v.SetDefault("analytics.sheet_name", "")
	v.SetDefault("analytics.lenient_numbers", false)
	v.SetDefault("log.level", "INFO")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

func validateConfig(c *Config) error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Export.Dir == "" {
		return fmt.Errorf("export directory is required")
	}
	if c.Analytics.WhiskerFactor < 0 {
		return fmt.Errorf("whisker factor must not be negative, got %v", c.Analytics.WhiskerFactor)
	}
	if c.Analytics.HistogramBins <= 0 {
		return fmt.Errorf("histogram bins must be positive, got %d", c.Analytics.HistogramBins)
	}
	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", c.Storage.MaxFileSize)
	}
	return nil
}
