/*
Package config loads runtime configuration for the CLI and the server.

SOURCES (highest priority first):
  1. Environment variables with the BACKLOG_ prefix (BACKLOG_SERVER_ADDR)
  2. A .env file in the working directory, loaded into the environment
  3. backlog.yaml in ".", "./config", or the file passed to Load
  4. Built-in defaults

EXAMPLE backlog.yaml:
  log:
    level: debug
    format: json
  server:
    addr: ":9090"
    cors_allow_origins: ["http://localhost:5173"]
    report_interval: 24h
  store:
    driver: sqlite
    path: ./data/backlog.db
  report:
    output_dir: ./out
    scenario: reference
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/warp/backlog-report/report"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BACKLOG"

// Config holds all application configuration
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Report ReportConfig `mapstructure:"report"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
	Output string `mapstructure:"output" validate:"required"` // stdout, stderr, or file path
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr             string        `mapstructure:"addr" validate:"required"`
	ReadTimeout      time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	CORSAllowOrigins []string      `mapstructure:"cors_allow_origins"`

	// ReportInterval regenerates report.scenario into report.output_dir while
	// serving. 0 disables it.
	ReportInterval time.Duration `mapstructure:"report_interval" validate:"gte=0"`
}

// StoreConfig selects where runs are persisted
type StoreConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=memory sqlite"`
	Path   string `mapstructure:"path" validate:"required_if=Driver sqlite"`
}

// ReportConfig holds renderer settings
type ReportConfig struct {
	OutputDir      string   `mapstructure:"output_dir" validate:"required"`
	Scenario       string   `mapstructure:"scenario" validate:"required"`
	CSVName        string   `mapstructure:"csv_name" validate:"required"`
	ChartName      string   `mapstructure:"chart_name" validate:"required"`
	PDFName        string   `mapstructure:"pdf_name" validate:"required"`
	XLSXName       string   `mapstructure:"xlsx_name" validate:"required"`
	ChartWidth     int      `mapstructure:"chart_width" validate:"min=200"`
	ChartHeight    int      `mapstructure:"chart_height" validate:"min=200"`
	FontCandidates []string `mapstructure:"font_candidates"`
}

// FileNames converts the configured names for the report generator.
func (r ReportConfig) FileNames() report.FileNames {
	return report.FileNames{CSV: r.CSVName, Chart: r.ChartName, PDF: r.PDFName, XLSX: r.XLSXName}
}

// ChartOptions applies the configured size to the default chart options.
func (r ReportConfig) ChartOptions() report.ChartOptions {
	opts := report.DefaultChartOptions()
	opts.Width, opts.Height = r.ChartWidth, r.ChartHeight
	return opts
}

// Load reads configuration. path may be empty to search the default
// locations; a missing default file is not an error, a missing explicit one is.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	v := viper.New()
	applyDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("backlog")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_allow_origins", []string{"*"})
	v.SetDefault("server.report_interval", time.Duration(0))

	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.path", "./data/backlog.db")

	v.SetDefault("report.output_dir", ".")
	v.SetDefault("report.scenario", "reference")
	v.SetDefault("report.csv_name", report.DefaultCSVName)
	v.SetDefault("report.chart_name", report.DefaultChartName)
	v.SetDefault("report.pdf_name", report.DefaultPDFName)
	v.SetDefault("report.xlsx_name", report.DefaultXLSXName)
	v.SetDefault("report.chart_width", 1200)
	v.SetDefault("report.chart_height", 800)
	v.SetDefault("report.font_candidates", report.DefaultFontCandidates)
}
