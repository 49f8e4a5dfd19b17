package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/staykeeper/internal/flagx"
	"github.com/dmitrijs2005/staykeeper/internal/timex"
)

// JSONConfig is the on-disk shape; it exists only for unmarshalling.
type JSONConfig struct {
	SupabaseURL     string         `json:"supabase_url"`
	SupabaseAnonKey string         `json:"supabase_anon_key"`
	DatabaseDSN     string         `json:"database_dsn"`
	CachePath       string         `json:"cache_path"`
	RequestTimeout  timex.Duration `json:"request_timeout"`
	InitialURL      string         `json:"initial_url"`
	AppVersion      string         `json:"app_version"`
	LogLevel        string         `json:"log_level"`
}

// parseJSON overlays cfg with the non-empty values of the file named by
// -c/-config. It panics on unreadable or malformed files.
func parseJSON(cfg *Config) {
	path := flagx.JSONConfigPath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.SupabaseURL, jc.SupabaseURL)
	overlay(&cfg.SupabaseAnonKey, jc.SupabaseAnonKey)
	overlay(&cfg.DatabaseDSN, jc.DatabaseDSN)
	overlay(&cfg.CachePath, jc.CachePath)
	overlay(&cfg.InitialURL, jc.InitialURL)
	overlay(&cfg.AppVersion, jc.AppVersion)
	overlay(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
