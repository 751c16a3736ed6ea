package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Chart   ChartConfig
	AWS     AWSConfig
	Logging LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Env             string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// ChartConfig holds chart layout overrides
type ChartConfig struct {
	Width  int
	Height int
	Title  string
	YMin   float64
	YMax   float64
}

// AWSConfig holds AWS/S3 configuration for snapshots
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Endpoint      string
}

// SnapshotsEnabled reports whether a bucket is configured
func (a AWSConfig) SnapshotsEnabled() bool {
	return a.S3Bucket != ""
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// Load loads configuration from environment variables and .env files
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:8080")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("CHART_WIDTH", 960)
	v.SetDefault("CHART_HEIGHT", 540)
	v.SetDefault("CHART_TITLE", "Measurements of the speed of light")
	v.SetDefault("CHART_Y_MIN", 0)
	v.SetDefault("CHART_Y_MAX", 0)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_ENDPOINT", "")

	// Environment variables override .env file values
	v.AutomaticEnv()

	env := v.GetString("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	v.SetConfigName(".env." + env)
	v.SetConfigType("env")
	v.AddConfigPath(".")

	// The file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read .env.%s: %w", env, err)
		}
	}

	shutdown, err := time.ParseDuration(v.GetString("SHUTDOWN_TIMEOUT"))
	if err != nil || shutdown <= 0 {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q", v.GetString("SHUTDOWN_TIMEOUT"))
	}

	var cfg Config
	cfg.Server.Port = v.GetString("PORT")
	cfg.Server.Env = env
	cfg.Server.AllowedOrigins = splitList(v.GetString("ALLOWED_ORIGINS"))
	cfg.Server.ShutdownTimeout = shutdown
	cfg.Chart.Width = v.GetInt("CHART_WIDTH")
	cfg.Chart.Height = v.GetInt("CHART_HEIGHT")
	cfg.Chart.Title = v.GetString("CHART_TITLE")
	cfg.Chart.YMin = v.GetFloat64("CHART_Y_MIN")
	cfg.Chart.YMax = v.GetFloat64("CHART_Y_MAX")
	cfg.AWS.Region = v.GetString("AWS_REGION")
	cfg.AWS.AccessKeyID = v.GetString("AWS_ACCESS_KEY_ID")
	cfg.AWS.SecretAccessKey = v.GetString("AWS_SECRET_ACCESS_KEY")
	cfg.AWS.S3Bucket = v.GetString("S3_BUCKET")
	cfg.AWS.S3Endpoint = v.GetString("S3_ENDPOINT")
	cfg.Logging.Level = v.GetString("LOG_LEVEL")

	if cfg.Chart.Width <= 0 || cfg.Chart.Height <= 0 {
		return nil, fmt.Errorf("chart size must be positive, got %dx%d", cfg.Chart.Width, cfg.Chart.Height)
	}
	if cfg.Chart.YMax < cfg.Chart.YMin {
		return nil, fmt.Errorf("CHART_Y_MAX (%g) is below CHART_Y_MIN (%g)", cfg.Chart.YMax, cfg.Chart.YMin)
	}

	log.Debug().
		Str("env", env).
		Strs("allowed_origins", cfg.Server.AllowedOrigins).
		Bool("snapshots", cfg.AWS.SnapshotsEnabled()).
		Msg("Configuration loaded")

	return &cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
