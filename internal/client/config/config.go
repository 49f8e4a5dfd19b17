package config

import "time"

const DefaultAppVersion = "2.0"

// Config holds runtime settings for the client.
type Config struct {
	SupabaseURL     string
	SupabaseAnonKey string
	DatabaseDSN     string
	CachePath       string
	SessionKey      string
	RequestTimeout  time.Duration
	InitialURL      string
	AppVersion      string
	LogLevel        string
}

// LoadDefaults populates c with defaults. There is no default backend.
func (c *Config) LoadDefaults() {
	c.CachePath = "staykeeper.db"
	c.RequestTimeout = 15 * time.Second
	c.AppVersion = DefaultAppVersion
	c.LogLevel = "info"
}

// LoadConfig applies defaults, environment, JSON and flags in that order.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}

// Backend reports which of the two backend credentials are present.
func (c *Config) Backend() (urlPresent, keyPresent bool) {
	return c.SupabaseURL != "", c.SupabaseAnonKey != ""
}
