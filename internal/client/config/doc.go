// Package config loads runtime configuration for the staykeeper client.
//
// Sources & precedence (later wins)
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables (see parseEnv). For the backend endpoint and key
//     several names are recognized and the first non-empty one wins:
//     VITE_SUPABASE_URL, SUPABASE_URL and VITE_SUPABASE_ANON_KEY,
//     SUPABASE_ANON_KEY.
//  3. Optional JSON file selected with -c or -config (see parseJSON).
//  4. Command-line flags (see parseFlags).
//
// Supported flags
//
//	-a string   backend URL
//	-k string   backend anon key
//	-d string   Postgres DSN for direct vault access (admin tooling)
//	-s string   path of the local sqlite cache
//	-t int      HTTP timeout (seconds)
//	-u string   initial URL to pick session tokens from
//	-v string   app version stamped on pushed vaults
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "supabase_url": "https://xyz.supabase.co",
//	  "supabase_anon_key": "eyJ...",
//	  "database_dsn": "",
//	  "cache_path": "staykeeper.db",
//	  "request_timeout": "15s",
//	  "initial_url": "",
//	  "app_version": "2.0",
//	  "log_level": "info"
//	}
//
// Missing backend URL or key is not an error here: the client then runs
// against the unconfigured backend and every remote operation degrades.
package config
