// Package config holds the wallcheck configuration and its viper-backed
// loader.
package config

import (
	"time"

	"github.com/wallcheck/wallcheck/internal/probe"
)

// Config represents the complete wallcheck configuration.
type Config struct {
	// Resolvers queried during the DNS phase, in report order.
	Resolvers []probe.Resolver `yaml:"resolvers" mapstructure:"resolvers"`

	// Ports probed per resolved IP.
	Ports []int `yaml:"ports" mapstructure:"ports"`

	// Timeout bounds every individual network operation.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Workers sizes the process-wide probe pool.
	Workers int `yaml:"workers" mapstructure:"workers"`

	// Output format: json, text, plain.
	Output string `yaml:"output" mapstructure:"output"`

	// Listen is the bind address for the serve command.
	Listen string `yaml:"listen" mapstructure:"listen"`

	// RateLimit caps API check requests per second; 0 disables throttling.
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`

	// Remotes are base URLs of remote wallcheck instances for the remote
	// command.
	Remotes []string `yaml:"remotes" mapstructure:"remotes"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultListen is the default bind address for the API server.
const DefaultListen = "127.0.0.1:8000"

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Resolvers: probe.DefaultResolvers,
		Ports:     probe.DefaultPorts,
		Timeout:   probe.DefaultTimeout,
		Workers:   probe.DefaultWorkers,
		Output:    "text",
		Listen:    DefaultListen,
		RateLimit: 0,
		Remotes:   nil,
		Verbose:   false,
	}
}
