package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/staykeeper/internal/flagx"
)

var knownFlags = []string{"-a", "-k", "-d", "-s", "-t", "-u", "-v", "-l"}

// parseFlags overlays cfg with command-line flags. os.Args is filtered first
// so flags that belong to other components do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.SupabaseURL, "a", cfg.SupabaseURL, "backend URL")
	fs.StringVar(&cfg.SupabaseAnonKey, "k", cfg.SupabaseAnonKey, "backend anon key")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "Postgres DSN for direct vault access")
	fs.StringVar(&cfg.CachePath, "s", cfg.CachePath, "local cache path")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "HTTP timeout (in seconds)")
	fs.StringVar(&cfg.InitialURL, "u", cfg.InitialURL, "initial URL carrying session tokens")
	fs.StringVar(&cfg.AppVersion, "v", cfg.AppVersion, "app version stamped on pushed vaults")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
