// Package config handles configuration for the client component.
package config

import "net"

// Config holds runtime settings for the contest client.
type Config struct {
	Host string
	Port string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Host = "127.0.0.1"
	c.Port = "8888"
}

// Addr returns the server address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
