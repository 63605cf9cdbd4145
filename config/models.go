package config

import "time"

// Config holds the application configuration.
type Config struct {
	// APIKey is the Perplexity credential. It may be empty; the handler
	// reports that per request instead of refusing to start.
	APIKey          string        `mapstructure:"api_key"`
	APIRoot         string        `mapstructure:"api_root"`
	ListenAddress   string        `mapstructure:"listen_address"`
	UpstreamTimeout time.Duration `mapstructure:"upstream_timeout"`
	MetricsPath     string        `mapstructure:"metrics_path"`
}
