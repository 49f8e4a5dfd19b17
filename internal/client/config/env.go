package config

import "github.com/dmitrijs2005/staykeeper/internal/envx"

// Recognized environment names, in preference order.
var (
	URLEnvKeys     = []string{"VITE_SUPABASE_URL", "SUPABASE_URL"}
	AnonKeyEnvKeys = []string{"VITE_SUPABASE_ANON_KEY", "SUPABASE_ANON_KEY"}
)

func parseEnv(cfg *Config) {
	if v, _ := envx.FirstNonEmpty(URLEnvKeys...); v != "" {
		cfg.SupabaseURL = v
	}
	if v, _ := envx.FirstNonEmpty(AnonKeyEnvKeys...); v != "" {
		cfg.SupabaseAnonKey = v
	}
	cfg.DatabaseDSN = envx.String("DATABASE_URL", cfg.DatabaseDSN)
	cfg.SessionKey = envx.String("STAYKEEPER_SESSION_KEY", cfg.SessionKey)
	cfg.CachePath = envx.String("STAYKEEPER_CACHE_PATH", cfg.CachePath)
	cfg.LogLevel = envx.String("STAYKEEPER_LOG_LEVEL", cfg.LogLevel)
}
