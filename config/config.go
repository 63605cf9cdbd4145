package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"perplexity-proxy/perplexity"
)

// APIKeyEnv is the environment variable holding the upstream credential.
const APIKeyEnv = "PERPLEXITY_API_KEY"

// Load builds a Config from defaults, the optional YAML file and the
// environment, in increasing order of precedence.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("api_root", perplexity.DefaultAPIRoot)
	v.SetDefault("listen_address", "0.0.0.0:8080")
	v.SetDefault("upstream_timeout", "0s")
	v.SetDefault("metrics_path", "/metrics")
	v.SetDefault("api_key", "")

	v.SetEnvPrefix("proxy")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api_key", APIKeyEnv); err != nil {
		return nil, fmt.Errorf("binding %s: %w", APIKeyEnv, err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var configuration Config
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validation. An empty api_key is allowed here.
	if configuration.APIRoot == "" {
		return nil, errors.New("api_root is required")
	}
	if configuration.UpstreamTimeout < 0 {
		return nil, fmt.Errorf("upstream_timeout must be >= 0, got %s", configuration.UpstreamTimeout)
	}
	if !strings.HasPrefix(configuration.MetricsPath, "/") {
		return nil, fmt.Errorf("metrics_path must start with /, got %q", configuration.MetricsPath)
	}

	return &configuration, nil
}
