package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wallcheck/wallcheck/internal/probe"
)

// RegisterFlags defines the persistent command-line flags that override
// config file values. The --config flag itself selects the file.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to config file")
	flags.StringP("output", "o", "text", "output format: text, json, plain")
	flags.Duration("timeout", probe.DefaultTimeout, "per-operation network timeout")
	flags.Int("workers", probe.DefaultWorkers, "probe worker pool size")
	flags.String("listen", DefaultListen, "bind address for the API server")
	flags.BoolP("verbose", "v", false, "enable debug logging")
}

// GetDefaultConfigPath returns the OS-appropriate default config file path,
// creating the app config directory if needed. userConfigDir is injected
// for testability; pass os.UserConfigDir in production.
func GetDefaultConfigPath(userConfigDir func() (string, error)) (string, error) {
	configDir, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}

	appConfigDir := filepath.Join(configDir, "wallcheck")
	if err := os.MkdirAll(appConfigDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(appConfigDir, "config.yaml"), nil
}

// Load resolves the configuration: defaults, then the config file (the
// --config flag or the OS default location), then flag overrides. A missing
// config file is not an error; the defaults apply.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	configPath := v.GetString("config")
	if configPath == "" {
		var err error
		configPath, err = GetDefaultConfigPath(os.UserConfigDir)
		if err != nil {
			return nil, err
		}
	}
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		// Only an explicitly requested file must exist.
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults configures viper default values matching NewDefaultConfig.
func setDefaults(v *viper.Viper) {
	def := NewDefaultConfig()
	resolvers := make([]map[string]string, len(def.Resolvers))
	for i, r := range def.Resolvers {
		resolvers[i] = map[string]string{"name": r.Name, "address": r.Address}
	}
	v.SetDefault("resolvers", resolvers)
	v.SetDefault("ports", def.Ports)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("output", def.Output)
	v.SetDefault("listen", def.Listen)
	v.SetDefault("rate_limit", def.RateLimit)
	v.SetDefault("remotes", def.Remotes)
	v.SetDefault("verbose", def.Verbose)
}

// validate rejects configurations the engine cannot run with.
func (c *Config) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if len(c.Resolvers) == 0 {
		return fmt.Errorf("at least one resolver is required")
	}
	for _, r := range c.Resolvers {
		if r.Name == "" || r.Address == "" {
			return fmt.Errorf("resolver entries need both name and address, got %+v", r)
		}
	}
	if len(c.Ports) == 0 {
		return fmt.Errorf("at least one probe port is required")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %v", c.RateLimit)
	}
	return nil
}
